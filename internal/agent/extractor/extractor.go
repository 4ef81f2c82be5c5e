// Package extractor turns stored document bytes into plain text. It backs the
// inline-text fallback used when a document cannot be uploaded to the model
// provider.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/feichai0017/document-checklist/pkg/logger"
)

var (
	// ErrNoText is returned when an extractor ran but found no text.
	ErrNoText = errors.New("no text extracted")
	// ErrUnsupported is returned when no extractor accepts the MIME type.
	ErrUnsupported = errors.New("unsupported mime type")
)

type Extractor interface {
	Name() string
	CanExtract(mimeType string) bool
	Extract(ctx context.Context, data []byte) (string, error)
}

var extToMIME = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tiff": "image/tiff",
}

// MIMEType maps a file name to its MIME type by extension.
func MIMEType(filename string) string {
	if m, ok := extToMIME[strings.ToLower(filepath.Ext(filename))]; ok {
		return m
	}
	return "application/octet-stream"
}

// Chain tries its extractors in registration order and returns the first
// non-empty text.
type Chain struct {
	extractors []Extractor
	logger     logger.Logger
}

func NewChain(log logger.Logger, extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors, logger: log}
}

func (c *Chain) Register(e Extractor) {
	c.extractors = append(c.extractors, e)
}

func (c *Chain) Extract(ctx context.Context, mimeType string, data []byte) (string, error) {
	var errs []error
	tried := 0
	for _, e := range c.extractors {
		if !e.CanExtract(mimeType) {
			continue
		}
		tried++
		text, err := e.Extract(ctx, data)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrNoText
		}
		if err != nil {
			c.logger.Warn("Extractor failed",
				logger.String("extractor", e.Name()),
				logger.String("mimeType", mimeType),
				logger.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		return text, nil
	}
	if tried == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
	return "", errors.Join(errs...)
}

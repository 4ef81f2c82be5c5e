// Package reference maps local documents to content blocks the model provider
// can read, uploading each document to the provider the first time it is used.
//
// There is no lock around the upload. Two requests that resolve the same fresh
// document concurrently may both upload it; each persists its own remote id and
// the later write wins. Both blocks stay valid for their own request.
//
// Provider copies may expire. A reference that expires within expiryMargin is
// treated as absent: the document is uploaded again and the new reference
// replaces the old one.
package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/document-checklist/internal/agent/extractor"
	"github.com/feichai0017/document-checklist/internal/agent/llm"
	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// DocumentSource is the part of the document store the cache needs.
type DocumentSource interface {
	Get(ctx context.Context, id uint) (*models.Document, error)
	Open(ctx context.Context, doc *models.Document) (io.ReadCloser, error)
	SetRemoteFileID(ctx context.Context, id uint, remoteFileID string, expiresAt *time.Time) error
}

// expiryMargin covers the longest model call that may still read a reference
// after it was resolved.
const expiryMargin = time.Hour

type TextExtractor interface {
	Extract(ctx context.Context, mimeType string, data []byte) (string, error)
}

type Cache struct {
	docs      DocumentSource
	provider  llm.Provider
	extractor TextExtractor
	logger    logger.Logger
	now       func() time.Time
}

func NewCache(docs DocumentSource, provider llm.Provider, ext TextExtractor, log logger.Logger) *Cache {
	return &Cache{docs: docs, provider: provider, extractor: ext, logger: log, now: time.Now}
}

// Resolve returns one content block per usable document, in the order of ids.
// Repeated ids resolve once and unknown ids are skipped. A document that can be
// neither uploaded nor converted to text is skipped. Only a failure to read
// document records is returned as an error.
func (c *Cache) Resolve(ctx context.Context, ids []uint) ([]models.ContentBlock, error) {
	blocks := make([]models.ContentBlock, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		doc, err := c.docs.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			c.logger.Debug("Skipping unknown document", logger.Uint("documentId", id))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load document %d: %w", id, err)
		}

		if block, ok := c.resolveOne(ctx, doc); ok {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

func (c *Cache) resolveOne(ctx context.Context, doc *models.Document) (models.ContentBlock, bool) {
	mimeType := doc.ContentType
	if mimeType == "" {
		mimeType = extractor.MIMEType(doc.OriginalName)
	}

	if doc.RemoteReferenceUsable(c.now(), expiryMargin) {
		return models.DocumentBlock(*doc.RemoteFileID, mimeType, doc.OriginalName), true
	}
	if doc.HasRemoteReference() {
		c.logger.Info("Remote reference expired, uploading again",
			logger.Uint("documentId", doc.ID),
			logger.String("remoteFileId", *doc.RemoteFileID),
			logger.Time("expiresAt", *doc.RemoteFileExpiresAt),
		)
	}

	data, err := c.read(ctx, doc)
	if err != nil {
		c.logger.Warn("Skipping unreadable document",
			logger.Uint("documentId", doc.ID),
			logger.Error(err),
		)
		return models.ContentBlock{}, false
	}

	remote, err := c.provider.UploadFile(ctx, doc.OriginalName, mimeType, bytes.NewReader(data))
	if err == nil {
		if err := c.docs.SetRemoteFileID(ctx, doc.ID, remote.ID, remote.Expiry()); err != nil {
			// The upload is still usable for this request.
			c.logger.Warn("Failed to persist remote file id",
				logger.Uint("documentId", doc.ID),
				logger.String("remoteFileId", remote.ID),
				logger.Error(err),
			)
		}
		return models.DocumentBlock(remote.ID, mimeType, doc.OriginalName), true
	}

	c.logger.Warn("Upload failed, falling back to extracted text",
		logger.Uint("documentId", doc.ID),
		logger.String("filename", doc.OriginalName),
		logger.Error(err),
	)
	text, err := c.extractor.Extract(ctx, mimeType, data)
	if err != nil {
		c.logger.Error("Failed to extract text, skipping document",
			logger.Uint("documentId", doc.ID),
			logger.String("filename", doc.OriginalName),
			logger.Error(err),
		)
		return models.ContentBlock{}, false
	}
	return models.TextBlock(fmt.Sprintf("[Document: %s]\n%s", doc.OriginalName, text)), true
}

func (c *Cache) read(ctx context.Context, doc *models.Document) ([]byte, error) {
	rc, err := c.docs.Open(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Delete removes a remote file. It never returns an error; false means the
// provider copy may still exist.
func (c *Cache) Delete(ctx context.Context, remoteFileID string) bool {
	if err := c.provider.DeleteFile(ctx, remoteFileID); err != nil {
		c.logger.Warn("Failed to delete remote file",
			logger.String("remoteFileId", remoteFileID),
			logger.Error(err),
		)
		return false
	}
	return true
}

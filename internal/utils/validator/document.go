package validator

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// Upload validation errors. Each wraps models.ErrInvalidInput.
var (
	ErrMissingFilename = fmt.Errorf("%w: no file provided", models.ErrInvalidInput)
	ErrUnsupportedType = fmt.Errorf("%w: file type not allowed", models.ErrInvalidInput)
	ErrFileTooLarge    = fmt.Errorf("%w: file too large", models.ErrInvalidInput)
)

var disableConfigDir sync.Once

type ValidatorConfig struct {
	MaxFileSize  int64
	AllowedTypes []string // lower-case extensions with leading dot
}

// DocumentValidator checks uploads against the configured limits.
type DocumentValidator struct {
	logger logger.Logger
	config ValidatorConfig
}

func NewDocumentValidator(log logger.Logger, config ValidatorConfig) *DocumentValidator {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 50 * 1024 * 1024
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = []string{".pdf"}
	}
	disableConfigDir.Do(api.DisableConfigDir)
	return &DocumentValidator{logger: log, config: config}
}

func (v *DocumentValidator) MaxFileSize() int64 {
	return v.config.MaxFileSize
}

// ValidateName checks the display name and returns its lower-case extension.
func (v *DocumentValidator) ValidateName(filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", ErrMissingFilename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range v.config.AllowedTypes {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q, allowed types: %s", ErrUnsupportedType, ext, strings.Join(v.config.AllowedTypes, ", "))
}

func (v *DocumentValidator) ValidateSize(size int64) error {
	if size > v.config.MaxFileSize {
		return fmt.Errorf("%w: maximum size is %d bytes", ErrFileTooLarge, v.config.MaxFileSize)
	}
	return nil
}

// PageCount reads the page count of a PDF. It is best-effort: callers store
// the document either way.
func (v *DocumentValidator) PageCount(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	count, err = api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	if count <= 0 {
		return 0, errors.New("pdf has no pages")
	}
	return count, nil
}

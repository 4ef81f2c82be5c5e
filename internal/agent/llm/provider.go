// Package llm is the boundary to the remote model provider: its file storage
// and its single-turn message API.
package llm

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/document-checklist/internal/models"
)

// Provider is the remote model service.
type Provider interface {
	// UploadFile stores r in the provider's file storage and returns the
	// reference document content blocks use. Failures are *UploadError.
	UploadFile(ctx context.Context, displayName, mimeType string, r io.Reader) (RemoteFile, error)
	DeleteFile(ctx context.Context, remoteFileID string) error
	// CreateMessage sends one user turn made of blocks and returns the reply
	// text. Failures are *ModelCallError.
	CreateMessage(ctx context.Context, system string, blocks []models.ContentBlock) (string, error)
}

// RemoteFile is an uploaded file. A zero ExpiresAt means the provider keeps
// the file until it is deleted.
type RemoteFile struct {
	ID        string
	ExpiresAt time.Time
}

// Expiry returns ExpiresAt as a nullable column value.
func (f RemoteFile) Expiry() *time.Time {
	if f.ExpiresAt.IsZero() {
		return nil
	}
	t := f.ExpiresAt
	return &t
}

type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %q: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

type ModelCallError struct {
	Model string
	Err   error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call to %s failed: %v", e.Model, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

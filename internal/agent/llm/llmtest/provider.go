// Package llmtest provides an in-memory llm.Provider for tests.
package llmtest

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/feichai0017/document-checklist/internal/agent/llm"
	"github.com/feichai0017/document-checklist/internal/models"
)

// Message is one recorded CreateMessage call.
type Message struct {
	System string
	Blocks []models.ContentBlock
}

// Provider records calls. Uploads of names listed in FailUploads fail with
// *llm.UploadError; every other upload gets id "remote-<n>". With a positive
// TTL uploads expire TTL after the upload.
type Provider struct {
	mu sync.Mutex

	FailUploads map[string]bool
	TTL         time.Duration
	DeleteErr   error
	Reply       string
	ReplyErr    error

	uploads  []string
	deletes  []string
	messages []Message
}

var _ llm.Provider = (*Provider)(nil)

func New(reply string) *Provider {
	return &Provider{Reply: reply, FailUploads: map[string]bool{}}
}

func (p *Provider) UploadFile(_ context.Context, displayName, _ string, r io.Reader) (llm.RemoteFile, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return llm.RemoteFile{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.uploads = append(p.uploads, displayName)
	if p.FailUploads[displayName] {
		return llm.RemoteFile{}, &llm.UploadError{Name: displayName, Err: fmt.Errorf("upload rejected")}
	}
	file := llm.RemoteFile{ID: fmt.Sprintf("remote-%d", len(p.uploads))}
	if p.TTL > 0 {
		file.ExpiresAt = time.Now().Add(p.TTL)
	}
	return file, nil
}

func (p *Provider) DeleteFile(_ context.Context, remoteFileID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes = append(p.deletes, remoteFileID)
	return p.DeleteErr
}

func (p *Provider) CreateMessage(_ context.Context, system string, blocks []models.ContentBlock) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{System: system, Blocks: append([]models.ContentBlock(nil), blocks...)})
	if p.ReplyErr != nil {
		return "", &llm.ModelCallError{Model: "test", Err: p.ReplyErr}
	}
	return p.Reply, nil
}

func (p *Provider) Uploads() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.uploads...)
}

func (p *Provider) Deletes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.deletes...)
}

func (p *Provider) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-checklist/pkg/logger"
)

type stubExtractor struct {
	name  string
	mime  string
	text  string
	err   error
	calls int
}

func (s *stubExtractor) Name() string                  { return s.name }
func (s *stubExtractor) CanExtract(mimeType string) bool { return mimeType == s.mime }
func (s *stubExtractor) Extract(context.Context, []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	empty := &stubExtractor{name: "pdf", mime: "application/pdf"}
	ocr := &stubExtractor{name: "ocr", mime: "application/pdf", text: "scanned text"}
	never := &stubExtractor{name: "never", mime: "application/pdf", text: "unused"}

	log := logger.NewTestLogger()
	chain := NewChain(log, empty, ocr)
	chain.Register(never)

	text, err := chain.Extract(context.Background(), "application/pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "scanned text", text)
	assert.Equal(t, 0, never.calls)
	assert.Len(t, log.EntriesAt("WARN"), 1)
}

func TestChain_AllFail(t *testing.T) {
	boom := errors.New("boom")
	chain := NewChain(logger.NewNop(),
		&stubExtractor{name: "a", mime: "application/pdf", err: boom},
		&stubExtractor{name: "b", mime: "application/pdf", text: "   "},
	)

	_, err := chain.Extract(context.Background(), "application/pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestChain_Unsupported(t *testing.T) {
	chain := NewChain(logger.NewNop(), &stubExtractor{name: "a", mime: "application/pdf"})
	_, err := chain.Extract(context.Background(), "image/gif", nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEType("Report.PDF"))
	assert.Equal(t, "application/octet-stream", MIMEType("archive.zip"))
	assert.Equal(t, "application/octet-stream", MIMEType("noext"))
}

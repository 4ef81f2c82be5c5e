package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

type fakeFiles struct {
	uploaded   []string
	uploadErr  error
	states     []genai.FileState
	getCalls   int
	deleted    []string
	deleteErr  error
	uploadFile *genai.File
}

func (f *fakeFiles) Upload(_ context.Context, r io.Reader, cfg *genai.UploadFileConfig) (*genai.File, error) {
	data, _ := io.ReadAll(r)
	f.uploaded = append(f.uploaded, cfg.DisplayName+":"+string(data))
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadFile, nil
}

func (f *fakeFiles) Get(_ context.Context, name string, _ *genai.GetFileConfig) (*genai.File, error) {
	state := f.states[f.getCalls]
	f.getCalls++
	return &genai.File{Name: name, URI: f.uploadFile.URI, State: state, ExpirationTime: f.uploadFile.ExpirationTime}, nil
}

func (f *fakeFiles) Delete(_ context.Context, name string, _ *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error) {
	f.deleted = append(f.deleted, name)
	return &genai.DeleteFileResponse{}, f.deleteErr
}

type fakeModels struct {
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	reply    string
	err      error
}

func (m *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.contents = contents
	m.config = cfg
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: genai.NewContentFromText(m.reply, genai.RoleModel),
	}}}, nil
}

const testURI = "https://generativelanguage.googleapis.com/v1beta/files/abc123"

func newTestGemini(files *fakeFiles, mdl *fakeModels) *Gemini {
	g := newGemini(files, mdl, GeminiConfig{}, logger.NewNop())
	g.pollInterval = time.Millisecond
	return g
}

func TestUploadFile_WaitsForActive(t *testing.T) {
	files := &fakeFiles{
		uploadFile: &genai.File{Name: "files/abc123", URI: testURI, State: genai.FileStateProcessing},
		states:     []genai.FileState{genai.FileStateProcessing, genai.FileStateActive},
	}
	g := newTestGemini(files, &fakeModels{})

	before := time.Now()
	file, err := g.UploadFile(context.Background(), "contract.pdf", "application/pdf", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, testURI, file.ID)
	assert.Equal(t, 2, files.getCalls)
	assert.Equal(t, []string{"contract.pdf:bytes"}, files.uploaded)

	// No expiration reported: assume the Files API retention.
	assert.False(t, file.ExpiresAt.Before(before.Add(fileRetention)))
	assert.False(t, file.ExpiresAt.After(time.Now().Add(fileRetention)))
}

func TestUploadFile_ReportsExpiration(t *testing.T) {
	expires := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	files := &fakeFiles{
		uploadFile: &genai.File{Name: "files/abc123", URI: testURI, State: genai.FileStateActive, ExpirationTime: expires},
	}

	file, err := newTestGemini(files, &fakeModels{}).UploadFile(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, RemoteFile{ID: testURI, ExpiresAt: expires}, file)
	assert.Equal(t, expires, *file.Expiry())
	assert.Nil(t, RemoteFile{ID: "x"}.Expiry())
}

func TestUploadFile_Errors(t *testing.T) {
	t.Run("upload rejected", func(t *testing.T) {
		cause := errors.New("quota")
		g := newTestGemini(&fakeFiles{uploadErr: cause}, &fakeModels{})
		_, err := g.UploadFile(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"))

		var upErr *UploadError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, "a.pdf", upErr.Name)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("processing failed", func(t *testing.T) {
		files := &fakeFiles{uploadFile: &genai.File{Name: "files/x", URI: testURI, State: genai.FileStateFailed}}
		_, err := newTestGemini(files, &fakeModels{}).UploadFile(context.Background(), "a.pdf", "application/pdf", strings.NewReader("x"))
		var upErr *UploadError
		assert.ErrorAs(t, err, &upErr)
	})
}

func TestDeleteFile(t *testing.T) {
	files := &fakeFiles{}
	g := newTestGemini(files, &fakeModels{})
	require.NoError(t, g.DeleteFile(context.Background(), testURI))
	assert.Equal(t, []string{"files/abc123"}, files.deleted)

	files.deleteErr = genai.APIError{Code: 404, Message: "gone"}
	assert.NoError(t, g.DeleteFile(context.Background(), testURI))

	files.deleteErr = genai.APIError{Code: 500, Message: "oops"}
	assert.Error(t, g.DeleteFile(context.Background(), testURI))
}

func TestCreateMessage(t *testing.T) {
	mdl := &fakeModels{reply: `{"question_answers":{}}`}
	g := newTestGemini(&fakeFiles{}, mdl)

	reply, err := g.CreateMessage(context.Background(), "be precise", []models.ContentBlock{
		models.TextBlock("QUESTION: q"),
		models.DocumentBlock(testURI, "application/pdf", "a.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"question_answers":{}}`, reply)

	require.Len(t, mdl.contents, 1)
	parts := mdl.contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "QUESTION: q", parts[0].Text)
	assert.Equal(t, "[Document: a.pdf]", parts[1].Text)
	require.NotNil(t, parts[2].FileData)
	assert.Equal(t, testURI, parts[2].FileData.FileURI)
	assert.Equal(t, int32(defaultMaxTokens), mdl.config.MaxOutputTokens)
	require.NotNil(t, mdl.config.SystemInstruction)

	mdl.err = errors.New("503")
	_, err = g.CreateMessage(context.Background(), "", nil)
	var callErr *ModelCallError
	assert.ErrorAs(t, err, &callErr)
}

func TestFileNameFromURI(t *testing.T) {
	assert.Equal(t, "files/abc123", fileNameFromURI(testURI))
	assert.Equal(t, "files/abc123", fileNameFromURI("files/abc123"))
	assert.Equal(t, "opaque", fileNameFromURI("opaque"))
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 4000
	filePollInterval = 2 * time.Second
	filePollTimeout  = 2 * time.Minute
	// Files API objects are deleted this long after upload.
	fileRetention = 48 * time.Hour
)

type filesAPI interface {
	Upload(ctx context.Context, r io.Reader, config *genai.UploadFileConfig) (*genai.File, error)
	Get(ctx context.Context, name string, config *genai.GetFileConfig) (*genai.File, error)
	Delete(ctx context.Context, name string, config *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error)
}

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// Gemini implements Provider with the Gemini Files API and GenerateContent.
// Remote file ids are file URIs.
type Gemini struct {
	files        filesAPI
	models       modelsAPI
	model        string
	maxTokens    int32
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       logger.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig, log logger.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Files, client.Models, cfg, log), nil
}

func newGemini(files filesAPI, models modelsAPI, cfg GeminiConfig, log logger.Logger) *Gemini {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Gemini{
		files:        files,
		models:       models,
		model:        model,
		maxTokens:    int32(maxTokens),
		pollInterval: filePollInterval,
		pollTimeout:  filePollTimeout,
		logger:       log,
	}
}

func (g *Gemini) Model() string { return g.model }

// UploadFile uploads r and waits until the provider finished processing it.
func (g *Gemini) UploadFile(ctx context.Context, displayName, mimeType string, r io.Reader) (RemoteFile, error) {
	uploadedAt := time.Now()
	file, err := g.files.Upload(ctx, r, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return RemoteFile{}, &UploadError{Name: displayName, Err: err}
	}

	file, err = g.waitActive(ctx, file)
	if err != nil {
		return RemoteFile{}, &UploadError{Name: displayName, Err: err}
	}

	expiresAt := file.ExpirationTime
	if expiresAt.IsZero() {
		expiresAt = uploadedAt.Add(fileRetention)
	}
	g.logger.Info("Uploaded file to provider",
		logger.String("name", displayName),
		logger.String("remoteFileId", file.URI),
		logger.Time("expiresAt", expiresAt),
	)
	return RemoteFile{ID: file.URI, ExpiresAt: expiresAt}, nil
}

func (g *Gemini) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(g.pollTimeout)
	for {
		switch file.State {
		case genai.FileStateActive, genai.FileStateUnspecified, "":
			if file.URI == "" {
				return nil, fmt.Errorf("provider returned file %s without uri", file.Name)
			}
			return file, nil
		case genai.FileStateFailed:
			return nil, fmt.Errorf("provider failed to process file %s", file.Name)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("file %s still processing after %s", file.Name, g.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.pollInterval):
		}

		next, err := g.files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to poll file %s: %w", file.Name, err)
		}
		file = next
	}
}

// DeleteFile removes the file. A file that is already gone counts as deleted.
func (g *Gemini) DeleteFile(ctx context.Context, remoteFileID string) error {
	name := fileNameFromURI(remoteFileID)
	if _, err := g.files.Delete(ctx, name, nil); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete remote file %s: %w", name, err)
	}
	return nil
}

func (g *Gemini) CreateMessage(ctx context.Context, system string, blocks []models.ContentBlock) (string, error) {
	parts := make([]*genai.Part, 0, len(blocks)*2)
	for _, b := range blocks {
		switch b.Kind {
		case models.BlockDocument:
			if b.Title != "" {
				parts = append(parts, genai.NewPartFromText("[Document: "+b.Title+"]"))
			}
			parts = append(parts, genai.NewPartFromURI(b.RemoteFileID, b.MIMEType))
		case models.BlockText:
			parts = append(parts, genai.NewPartFromText(b.Text))
		}
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", &ModelCallError{Model: g.model, Err: err}
	}
	return resp.Text(), nil
}

// fileNameFromURI turns a file URI into the "files/<id>" resource name the
// Files API addresses.
func fileNameFromURI(remoteFileID string) string {
	if i := strings.LastIndex(remoteFileID, "files/"); i >= 0 {
		return strings.TrimRight(remoteFileID[i:], "/")
	}
	return remoteFileID
}

func isNotFound(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusNotFound
	}
	return false
}

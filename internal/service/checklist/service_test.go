package checklist

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feichai0017/document-checklist/internal/agent/llm"
	"github.com/feichai0017/document-checklist/internal/agent/llm/llmtest"
	"github.com/feichai0017/document-checklist/internal/database"
	"github.com/feichai0017/document-checklist/internal/models"
	"github.com/feichai0017/document-checklist/internal/repository"
	"github.com/feichai0017/document-checklist/internal/service/document"
	"github.com/feichai0017/document-checklist/internal/service/question"
	"github.com/feichai0017/document-checklist/internal/service/reference"
	"github.com/feichai0017/document-checklist/internal/testutil"
	"github.com/feichai0017/document-checklist/internal/utils/validator"
	"github.com/feichai0017/document-checklist/pkg/logger"
	"github.com/feichai0017/document-checklist/pkg/storage/local"
)

type noText struct{}

func (noText) Extract(context.Context, string, []byte) (string, error) {
	return "", errors.New("no text")
}

type env struct {
	db        *gorm.DB
	docs      *document.Store
	questions *question.Service
	provider  *llmtest.Provider
	service   *Service
}

func newEnv(t *testing.T, reply string) *env {
	t.Helper()
	db, err := database.OpenMigrated("sqlite://:memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	blobs, err := local.NewLocalStorage(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	log := logger.NewNop()
	v := validator.NewDocumentValidator(log, validator.ValidatorConfig{MaxFileSize: 1 << 20, AllowedTypes: []string{".pdf"}})
	docs := document.NewStore(repository.NewDocumentRepository(db), blobs, v, log)
	questions := question.NewService(repository.NewQuestionRepository(db), log)
	provider := llmtest.New(reply)
	refs := reference.NewCache(docs, provider, noText{}, log)

	svc := NewService(
		NewSessionManager(repository.NewSessionRepository(db), log),
		NewComposer(questions),
		refs,
		provider,
		docs,
		log,
	)
	return &env{db: db, docs: docs, questions: questions, provider: provider, service: svc}
}

func (e *env) upload(t *testing.T, name, text string) uint {
	t.Helper()
	doc, err := e.docs.Store(context.Background(), bytes.NewReader(testutil.MinimalPDF(text)), name, "application/pdf")
	require.NoError(t, err)
	return doc.ID
}

func (e *env) sessions(t *testing.T) []models.ProcessingSession {
	t.Helper()
	var out []models.ProcessingSession
	require.NoError(t, e.db.Order("id").Find(&out).Error)
	return out
}

func TestProcessChecklist_NoItemsMakesNoRemoteCalls(t *testing.T) {
	e := newEnv(t, `{"question_answers":{"x":"y"}}`)
	id := e.upload(t, "lease.pdf", "Lease")

	res, err := e.service.ProcessChecklist(context.Background(), ChecklistRequest{FileIDs: []uint{id}})
	require.NoError(t, err)

	assert.Empty(t, res.QuestionAnswers)
	assert.Empty(t, res.ConditionEvaluations)
	assert.Equal(t, []string{"lease.pdf"}, res.FilesProcessed)
	assert.Empty(t, e.provider.Uploads())
	assert.Empty(t, e.provider.Messages())

	sessions := e.sessions(t)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.SessionCompleted, sessions[0].Status)
	require.NotNil(t, sessions[0].Results)
	assert.JSONEq(t, `{"question_answers":{},"condition_evaluations":{}}`, *sessions[0].Results)
}

func TestProcessChecklist_EndToEnd(t *testing.T) {
	e := newEnv(t, `{"question_answers":{"Who is the tenant?":"Alice","What is the rent?":"100"},"condition_evaluations":{"Is it signed?":true}}`)
	lease := e.upload(t, "lease.pdf", "Lease")
	annex := e.upload(t, "annex.pdf", "Annex")
	stored, err := e.questions.Create(context.Background(), "Who is the tenant?", models.ItemTypeQuestion)
	require.NoError(t, err)

	res, err := e.service.ProcessChecklist(context.Background(), ChecklistRequest{
		FileIDs:     []uint{annex, lease, 999},
		QuestionIDs: []uint{stored.ID},
		Questions:   []string{"What is the rent?"},
		Conditions:  []string{"Is it signed?"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", res.QuestionAnswers["Who is the tenant?"])
	assert.True(t, res.ConditionEvaluations["Is it signed?"])
	assert.Equal(t, []string{"annex.pdf", "lease.pdf"}, res.FilesProcessed)
	assert.NotEmpty(t, res.SessionID)

	assert.Equal(t, []string{"annex.pdf", "lease.pdf"}, e.provider.Uploads())
	msgs := e.provider.Messages()
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Blocks, 3)
	assert.Contains(t, msgs[0].Blocks[0].Text, "QUESTION: Who is the tenant?\nQUESTION: What is the rent?\nCONDITION: Is it signed?")
	assert.Equal(t, "annex.pdf", msgs[0].Blocks[1].Title)
	assert.Equal(t, "lease.pdf", msgs[0].Blocks[2].Title)

	sessions := e.sessions(t)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.SessionID, sessions[0].SessionID)
	assert.Equal(t, models.SessionCompleted, sessions[0].Status)
	assert.Nil(t, sessions[0].ErrorMessage)
	require.NotNil(t, sessions[0].ProcessingTimeMS)
	assert.Equal(t, res.ProcessingTimeMS, *sessions[0].ProcessingTimeMS)
	assert.NotNil(t, sessions[0].CompletedAt)
}

func TestProcessChecklist_DuplicateTextCollapses(t *testing.T) {
	e := newEnv(t, `{"question_answers":{"Who?":"Alice"},"condition_evaluations":{}}`)

	res, err := e.service.ProcessChecklist(context.Background(), ChecklistRequest{Questions: []string{"Who?", "Who?"}})
	require.NoError(t, err)

	msgs := e.provider.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Blocks[0].Text, "QUESTION: Who?\nQUESTION: Who?")
	assert.Equal(t, map[string]string{"Who?": "Alice"}, res.QuestionAnswers)
}

func TestProcessChecklist_UnparseableReplyCompletes(t *testing.T) {
	e := newEnv(t, "I could not read the documents.")

	res, err := e.service.ProcessChecklist(context.Background(), ChecklistRequest{Conditions: []string{"Signed?"}})
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswers().QuestionAnswers, res.QuestionAnswers)
	assert.Empty(t, res.ConditionEvaluations)
	assert.Equal(t, models.SessionCompleted, e.sessions(t)[0].Status)
}

func TestProcessChecklist_ModelErrorMarksFailed(t *testing.T) {
	e := newEnv(t, "")
	e.provider.ReplyErr = &llm.ModelCallError{Model: "test-model", Err: errors.New("quota exceeded")}

	_, err := e.service.ProcessChecklist(context.Background(), ChecklistRequest{Questions: []string{"Who?"}})
	var callErr *llm.ModelCallError
	require.ErrorAs(t, err, &callErr)

	sessions := e.sessions(t)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.SessionFailed, sessions[0].Status)
	require.NotNil(t, sessions[0].ErrorMessage)
	assert.Contains(t, *sessions[0].ErrorMessage, "quota exceeded")
	assert.NotNil(t, sessions[0].ProcessingTimeMS)
	assert.Nil(t, sessions[0].Results)
}

func TestChatWithDocuments(t *testing.T) {
	e := newEnv(t, "The tenant is Alice.")
	id := e.upload(t, "lease.pdf", "Lease")

	res, err := e.service.ChatWithDocuments(context.Background(), "Who is the tenant?", []uint{id, id})
	require.NoError(t, err)
	assert.Equal(t, "The tenant is Alice.", res.Response)
	assert.Equal(t, []string{"lease.pdf"}, res.FilesUsed)
	assert.Empty(t, e.sessions(t))

	msgs := e.provider.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chatSystemPrompt, msgs[0].System)
}

func TestChatWithDocuments_EmptyMessage(t *testing.T) {
	e := newEnv(t, "")
	_, err := e.service.ChatWithDocuments(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, e.provider.Messages())
}

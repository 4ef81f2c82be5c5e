package checklist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/document-checklist/internal/models"
)

func TestMockService(t *testing.T) {
	var svc AIService = MockService{}

	res, err := svc.ProcessChecklist(context.Background(), ChecklistRequest{
		QuestionIDs: []uint{7},
		Questions:   []string{"Who?"},
		Conditions:  []string{"Signed?"},
	})
	require.NoError(t, err)
	assert.Equal(t, &ChecklistResult{
		SessionID:            "mock-session-id",
		QuestionAnswers:      map[string]string{"Who?": "Mock answer for testing purposes"},
		ConditionEvaluations: map[string]bool{"Signed?": true},
		ProcessingTimeMS:     100,
		FilesProcessed:       []string{"mock-file.pdf"},
	}, res)

	chat, err := svc.ChatWithDocuments(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", chat.Response)
	assert.Equal(t, []string{"mock-file.pdf"}, chat.FilesUsed)

	_, err = svc.ChatWithDocuments(context.Background(), "", nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/feichai0017/document-checklist/internal/models"
)

const checklistSystemPrompt = `You are an expert document analyzer. Analyze the provided documents and answer the questions or evaluate the conditions you are given.

Consider all document content, including text, quotes, tables and charts, and keep the full context in mind.

For questions: give clear, specific answers based on the document content. If the information is not found, answer "Information not found in documents".

For conditions: evaluate each as true or false based on the document content. If you cannot determine the answer, evaluate it as false.

Always output a raw JSON string, with no code fences and no preface, in exactly this structure:
{
    "question_answers": {"<question text>": "<answer>"},
    "condition_evaluations": {"<condition text>": <true or false>}
}

Be precise and cite specific sections of the documents when possible.`

const chatSystemPrompt = "You are a helpful assistant that answers questions based on provided documents. Be accurate and cite specific information from the documents when possible."

// ItemSource returns stored items by id.
type ItemSource interface {
	ActiveByIDs(ctx context.Context, ids []uint) ([]models.ChecklistItem, error)
}

// Prompt is what goes to the model: a system instruction and one user turn.
// Empty means there is nothing to ask and no call should be made.
type Prompt struct {
	System string
	Blocks []models.ContentBlock
	Empty  bool
}

type Composer struct {
	items ItemSource
}

func NewComposer(items ItemSource) *Composer {
	return &Composer{items: items}
}

// PrepareItems returns question and condition texts: active stored items in the
// order of req.QuestionIDs, then ad-hoc items in request order. Duplicates stay.
func (c *Composer) PrepareItems(ctx context.Context, req ChecklistRequest) (questions, conditions []string, err error) {
	if len(req.QuestionIDs) > 0 {
		items, err := c.items.ActiveByIDs(ctx, req.QuestionIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load checklist items: %w", err)
		}
		for _, item := range items {
			switch item.Type {
			case models.ItemTypeQuestion:
				questions = append(questions, item.Text)
			case models.ItemTypeCondition:
				conditions = append(conditions, item.Text)
			}
		}
	}
	questions = append(questions, req.Questions...)
	conditions = append(conditions, req.Conditions...)
	return questions, conditions, nil
}

// BuildPrompt renders the checklist instruction followed by the document blocks.
func BuildPrompt(questions, conditions []string, blocks []models.ContentBlock) Prompt {
	if len(questions) == 0 && len(conditions) == 0 {
		return Prompt{Empty: true}
	}

	lines := make([]string, 0, len(questions)+len(conditions))
	for _, q := range questions {
		lines = append(lines, "QUESTION: "+q)
	}
	for _, c := range conditions {
		lines = append(lines, "CONDITION: "+c)
	}

	instruction := "Please analyze the provided documents and process the following checklist items:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nRespond in JSON format as specified in the system prompt."

	out := make([]models.ContentBlock, 0, len(blocks)+1)
	out = append(out, models.TextBlock(instruction))
	out = append(out, blocks...)
	return Prompt{System: checklistSystemPrompt, Blocks: out}
}

// BuildChatPrompt wraps a free-form message the same way, without the JSON contract.
func BuildChatPrompt(message string, blocks []models.ContentBlock) Prompt {
	instruction := "Based on the provided documents, please respond to the following message:\n\n" +
		message +
		"\n\nProvide a helpful and accurate response based on the document content. If the information is not available in the documents, please state that clearly."

	out := make([]models.ContentBlock, 0, len(blocks)+1)
	out = append(out, models.TextBlock(instruction))
	out = append(out, blocks...)
	return Prompt{System: chatSystemPrompt, Blocks: out}
}

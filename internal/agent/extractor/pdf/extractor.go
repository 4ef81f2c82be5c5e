package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/document-checklist/pkg/logger"
)

const defaultMaxWorkers = 4

type Extractor struct {
	logger     logger.Logger
	maxWorkers int
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{logger: log, maxWorkers: defaultMaxWorkers}
}

func (e *Extractor) Name() string { return "pdf" }

func (e *Extractor) CanExtract(mimeType string) bool {
	return mimeType == "application/pdf"
}

// Extract reads page text in parallel and joins it in page order, one newline
// after each page.
func (e *Extractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	pages := make([]string, numPages)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxWorkers)
	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("failed to parse page %d: %v", pageNum, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}

			page := pdfReader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}
			pageText, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}
			pages[pageNum-1] = pageText
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p)
		sb.WriteString("\n")
	}

	e.logger.Debug("Extracted pdf text",
		logger.Int("pages", numPages),
		logger.Int("chars", sb.Len()),
	)
	return sb.String(), nil
}

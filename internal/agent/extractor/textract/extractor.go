package textract

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/feichai0017/document-checklist/config"
	"github.com/feichai0017/document-checklist/pkg/logger"
)

// maxSyncBytes is the largest document the synchronous Textract API accepts.
const maxSyncBytes = 5 * 1024 * 1024

type detectAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Extractor OCRs scanned documents with AWS Textract.
type Extractor struct {
	client        detectAPI
	logger        logger.Logger
	minConfidence float32
}

func NewExtractor(ctx context.Context, cfg config.TextractConfig, log logger.Logger) (*Extractor, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := textract.NewFromConfig(awsCfg, func(o *textract.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Extractor{client: client, logger: log, minConfidence: 80}, nil
}

func (e *Extractor) Name() string { return "textract" }

func (e *Extractor) CanExtract(mimeType string) bool {
	switch strings.ToLower(mimeType) {
	case "application/pdf", "image/png", "image/jpeg", "image/tiff":
		return true
	}
	return false
}

func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) > maxSyncBytes {
		return "", fmt.Errorf("document is %d bytes, textract accepts at most %d", len(data), maxSyncBytes)
	}

	result, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return "", fmt.Errorf("failed to analyze document: %w", err)
	}
	return strings.Join(e.lines(result.Blocks), "\n"), nil
}

func (e *Extractor) lines(blocks []types.Block) []string {
	var texts []string
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < e.minConfidence {
			continue
		}
		texts = append(texts, *block.Text)
	}
	return texts
}

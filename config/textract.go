package config

import "strings"

// TextractConfig enables OCR of scanned PDFs when local text extraction finds nothing.
type TextractConfig struct {
	Enabled   bool
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func loadTextractConfig() TextractConfig {
	return TextractConfig{
		Enabled:   strings.EqualFold(getEnv("TEXTRACT_ENABLED", "false"), "true"),
		Region:    getEnv("AWS_REGION", "us-east-1"),
		Endpoint:  getEnv("AWS_ENDPOINT", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY", ""),
		SecretKey: getEnv("AWS_SECRET_KEY", ""),
	}
}

package config

import "strings"

type MinioConfig struct {
	AccessKey  string
	SecretKey  string
	Endpoint   string
	UseSSL     bool
	Region     string
	BucketName string
	Prefix     string
}

func loadMinioConfig() MinioConfig {
	return MinioConfig{
		AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		UseSSL:     strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		Region:     getEnv("MINIO_REGION", ""),
		BucketName: getEnv("MINIO_BUCKET_NAME", "documents"),
		Prefix:     getEnv("MINIO_PREFIX", "uploads/"),
	}
}

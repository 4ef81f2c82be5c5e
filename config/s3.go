package config

type S3Config struct {
	BucketName string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Prefix     string
}

func loadS3Config() S3Config {
	return S3Config{
		BucketName: getEnv("AWS_S3_BUCKET_NAME", ""),
		Region:     getEnv("AWS_REGION", "us-east-1"),
		Endpoint:   getEnv("AWS_ENDPOINT", ""),
		AccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		SecretKey:  getEnv("AWS_SECRET_KEY", ""),
		Prefix:     getEnv("AWS_S3_PREFIX", "uploads/"),
	}
}

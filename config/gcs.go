package config

type GCSConfig struct {
	BucketName string
	Prefix     string
}

func loadGCSConfig() GCSConfig {
	return GCSConfig{
		BucketName: getEnv("GCS_BUCKET_NAME", ""),
		Prefix:     getEnv("GCS_PREFIX", "uploads/"),
	}
}

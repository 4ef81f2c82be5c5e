package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendGemini = "gemini"
	BackendMock   = "mock"
)

// Config holds every setting the server, worker and CLI need. It is built once by
// Load and passed explicitly to whatever composes the services.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Debug       bool

	Host string
	Port int

	DatabaseURL    string
	AllowedOrigins []string

	LLM     LLMConfig
	Upload  UploadConfig
	Storage StorageConfig
	Redis   RedisConfig
	Log     LogConfig

	S3       S3Config
	Minio    MinioConfig
	GCS      GCSConfig
	Textract TextractConfig
}

type LLMConfig struct {
	Backend   string
	APIKey    string
	Model     string
	MaxTokens int
}

type UploadConfig struct {
	Directory    string
	MaxFileSize  int64
	AllowedTypes []string
}

type StorageConfig struct {
	Type string // local, s3, minio, gcs
}

// RedisConfig is optional. An empty Addr disables the session cache and the
// remote-delete retry queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type LogConfig struct {
	Level       string
	Encoding    string
	OutputPaths []string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:3002",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

// Load reads envFile (if it exists) into the process environment and then builds a
// Config from environment variables. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	port, err := getEnvInt("PORT", 8000)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvInt("LLM_MAX_TOKENS", 4000)
	if err != nil {
		return nil, err
	}
	maxSize, err := getEnvInt("MAX_FILE_SIZE", 50*1024*1024)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "AI Document Processor"),
		AppVersion:     getEnv("APP_VERSION", "1.0.0"),
		Environment:    getEnv("ENVIRONMENT", EnvDevelopment),
		Debug:          strings.EqualFold(getEnv("DEBUG", "false"), "true"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           port,
		DatabaseURL:    getEnv("DATABASE_URL", "sqlite:///./documents.db"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", defaultOrigins),
		LLM: LLMConfig{
			Backend:   strings.ToLower(getEnv("AI_BACKEND", BackendGemini)),
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			Model:     getEnv("LLM_MODEL", "gemini-2.5-flash"),
			MaxTokens: maxTokens,
		},
		Upload: UploadConfig{
			Directory:    getEnv("UPLOAD_DIRECTORY", "uploads"),
			MaxFileSize:  int64(maxSize),
			AllowedTypes: normalizeExtensions(getEnvList("ALLOWED_FILE_TYPES", []string{".pdf"})),
		},
		Storage: StorageConfig{
			Type: strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Encoding:    getEnv("LOG_ENCODING", "json"),
			OutputPaths: getEnvList("LOG_OUTPUT_PATHS", []string{"stdout", "logs/app.log"}),
		},
		S3:       loadS3Config(),
		Minio:    loadMinioConfig(),
		GCS:      loadGCSConfig(),
		Textract: loadTextractConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late at first use.
func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case BackendGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required for the %s backend", BackendGemini)
		}
	case BackendMock:
	default:
		return fmt.Errorf("unsupported AI_BACKEND: %s", c.LLM.Backend)
	}

	switch c.Storage.Type {
	case "local", "s3", "minio", "gcs":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("ALLOWED_FILE_TYPES must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// CORSOrigins drops loopback origins in production and allows everything otherwise.
func (c *Config) CORSOrigins() []string {
	if c.IsProduction() {
		origins := make([]string, 0, len(c.AllowedOrigins))
		for _, o := range c.AllowedOrigins {
			if strings.Contains(o, "localhost") || strings.Contains(o, "127.0.0.1") {
				continue
			}
			origins = append(origins, o)
		}
		return origins
	}
	return append(append([]string{}, c.AllowedOrigins...), "*")
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

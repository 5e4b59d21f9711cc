package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string
	Bundle         BundleConfig
	Cache          CacheConfig
	// HistoryDSN is the Postgres DSN for export history; empty keeps it in memory.
	HistoryDSN string
	Artifact   ArtifactConfig
	Tokens     TokenConfig
}

type BundleConfig struct {
	// AllowedRoot confines requested roots; empty allows any directory.
	AllowedRoot string
	Name        string
	IgnoreDirs  []string
}

type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type TokenConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with an explicit argument list.
func LoadArgs(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("bundlegw", flag.ContinueOnError)
	port := fs.String("port", ":5000", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:           *port,
		Env:            env,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Bundle: BundleConfig{
			AllowedRoot: strings.TrimSpace(os.Getenv("BUNDLE_ALLOWED_ROOT")),
			Name:        firstNonEmpty(strings.TrimSpace(os.Getenv("BUNDLE_NAME")), "gpt_bundle.txt"),
			IgnoreDirs:  splitList(os.Getenv("BUNDLE_IGNORE_DIRS")),
		},
		Cache: CacheConfig{
			MaxEntries: envInt("BUNDLE_CACHE_SIZE", 32),
			TTL:        envDuration("BUNDLE_CACHE_TTL", 10*time.Minute),
		},
		HistoryDSN: firstNonEmpty(strings.TrimSpace(os.Getenv("EXPORT_HISTORY_PG_DSN")), strings.TrimSpace(os.Getenv("DATABASE_URL"))),
		Artifact:   loadArtifactConfig(),
		Tokens: TokenConfig{
			GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			GeminiModel:  strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		},
	}, nil
}

func loadArtifactConfig() ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("BUNDLE_S3_ENDPOINT"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("BUNDLE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BUNDLE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BUNDLE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("BUNDLE_S3_BUCKET")), "codebundle"),
		UseSSL:    envBool("BUNDLE_S3_USE_SSL", true),
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

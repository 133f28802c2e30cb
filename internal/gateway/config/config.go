package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"c4analytics/internal/report"
)

type Config struct {
	Port string
	Env  string

	GitLab   GitLabConfig
	Source   SourceConfig
	MinLinks int

	// SettingsPath is the file the durable settings store writes when no
	// Postgres DSN is configured.
	SettingsPath string
	SettingsDSN  string

	Snapshot SnapshotConfig
}

// GitLabConfig covers the loader side: where the likec4 document lives
// and how to authenticate. The token is never persisted.
type GitLabConfig struct {
	BaseURL string
	Token   string
}

// SourceConfig is the default document location, overridable per session.
type SourceConfig struct {
	ProjectID string
	FilePath  string
	Branch    string
	// LocalRoot, when set, enables the local-file source mode with reads
	// confined to this directory.
	LocalRoot string
}

// SnapshotConfig configures the optional upload/report archive.
type SnapshotConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

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
		Port: *port,
		Env:  env,
		GitLab: GitLabConfig{
			BaseURL: strings.TrimSpace(os.Getenv("GITLAB_BASE_URL")),
			Token:   strings.TrimSpace(os.Getenv("GITLAB_TOKEN")),
		},
		Source: SourceConfig{
			ProjectID: firstNonEmpty(strings.TrimSpace(os.Getenv("C4_PROJECT_ID")), "67327904"),
			FilePath:  firstNonEmpty(strings.TrimSpace(os.Getenv("C4_FILE_PATH")), "likec4.json"),
			Branch:    firstNonEmpty(strings.TrimSpace(os.Getenv("C4_BRANCH")), "main"),
			LocalRoot: strings.TrimSpace(os.Getenv("C4_LOCAL_ROOT")),
		},
		MinLinks:     intEnv("MIN_LINKS_REQUIRED", report.DefaultMinLinks),
		SettingsPath: firstNonEmpty(strings.TrimSpace(os.Getenv("SETTINGS_PATH")), "tmp/c4_analytics_settings.json"),
		SettingsDSN:  strings.TrimSpace(os.Getenv("SETTINGS_PG_DSN")),
		Snapshot:     loadSnapshotConfig(env),
	}, nil
}

func loadSnapshotConfig(env string) SnapshotConfig {
	endpoint := resolveSnapshotEndpoint(env)
	return SnapshotConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("SNAPSHOT_S3_BUCKET")), "c4-analytics-snapshots"),
		UseSSL:    resolveSnapshotUseSSL(env),
	}
}

func resolveSnapshotEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("SNAPSHOT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("SNAPSHOT_S3_ENDPOINT"))
}

func resolveSnapshotUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("SNAPSHOT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

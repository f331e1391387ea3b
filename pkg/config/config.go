package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheets SheetsConfig
	Gemini GeminiConfig
	Auth   AuthConfig
	Redis  RedisConfig
	CORS   CORSConfig
	Log    LogConfig
	View   ViewConfig
	Export ExportConfig
}

// SheetsConfig locates the backing spreadsheet and its two tabs.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
	RecordsSheet    string
	FlashcardsSheet string
	SentinelTrue    string
	RequestTimeout  time.Duration
}

// GeminiConfig configures the generative model used for flashcard drafts.
type GeminiConfig struct {
	APIKey   string
	Model    string
	MaxCards int
	Timeout  time.Duration
}

// AuthConfig holds the single-operator credentials and token settings.
type AuthConfig struct {
	OperatorEmail        string
	OperatorPasswordHash string
	JWTSecret            string
	JWTExpiration        time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TableTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ViewConfig tunes the visible-subset computation.
type ViewConfig struct {
	DefaultCap int
}

// ExportConfig toggles the export endpoints.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheets = SheetsConfig{
		SpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
		CredentialsFile: v.GetString("SHEETS_CREDENTIALS_FILE"),
		CredentialsJSON: v.GetString("SHEETS_CREDENTIALS_JSON"),
		RecordsSheet:    v.GetString("SHEETS_RECORDS_SHEET"),
		FlashcardsSheet: v.GetString("SHEETS_FLASHCARDS_SHEET"),
		SentinelTrue:    v.GetString("SHEETS_SENTINEL_TRUE"),
		RequestTimeout:  parseDuration(v.GetString("SHEETS_REQUEST_TIMEOUT"), 30*time.Second),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:   v.GetString("GEMINI_API_KEY"),
		Model:    v.GetString("GEMINI_MODEL"),
		MaxCards: v.GetInt("GEMINI_MAX_CARDS"),
		Timeout:  parseDuration(v.GetString("GEMINI_TIMEOUT"), 60*time.Second),
	}

	cfg.Auth = AuthConfig{
		OperatorEmail:        v.GetString("OPERATOR_EMAIL"),
		OperatorPasswordHash: v.GetString("OPERATOR_PASSWORD_HASH"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTExpiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TableTTL: parseDuration(v.GetString("REDIS_TABLE_TTL"), 10*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.View = ViewConfig{
		DefaultCap: v.GetInt("VIEW_DEFAULT_CAP"),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_CREDENTIALS_FILE", "")
	v.SetDefault("SHEETS_CREDENTIALS_JSON", "")
	v.SetDefault("SHEETS_RECORDS_SHEET", "articles")
	v.SetDefault("SHEETS_FLASHCARDS_SHEET", "flashcards")
	v.SetDefault("SHEETS_SENTINEL_TRUE", "Oui")
	v.SetDefault("SHEETS_REQUEST_TIMEOUT", "30s")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_MAX_CARDS", 20)
	v.SetDefault("GEMINI_TIMEOUT", "60s")

	v.SetDefault("OPERATOR_EMAIL", "")
	v.SetDefault("OPERATOR_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TABLE_TTL", "10m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("VIEW_DEFAULT_CAP", 100)

	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Voice    VoiceConfig    `yaml:"voice"`
	LLM      LLMConfig      `yaml:"llm"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,Idempotency-Key"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// ConnectTimeout bounds pool creation and the initial ping.
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"10s"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"voicecommand"`
}

// AuthConfig holds bearer credential settings.
type AuthConfig struct {
	// TokenPepper keys the device token hash. Rotating it invalidates every issued token.
	TokenPepper     string        `yaml:"token_pepper"      env:"AUTH_TOKEN_PEPPER"      env-required:"true"`
	RequiredScope   string        `yaml:"required_scope"    env:"AUTH_REQUIRED_SCOPE"    env-default:"voice:command"`
	DeviceTokenTTL  time.Duration `yaml:"device_token_ttl"  env:"AUTH_DEVICE_TOKEN_TTL"  env-default:"8760h"`
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"voicecommand"`
	SessionTokenTTL time.Duration `yaml:"session_token_ttl" env:"AUTH_SESSION_TOKEN_TTL" env-default:"15m"`
}

// WebSessionsEnabled reports whether JWT web-session credentials are accepted.
func (c AuthConfig) WebSessionsEnabled() bool {
	return c.JWTSecret != ""
}

// VoiceConfig holds pipeline gating and limits.
type VoiceConfig struct {
	HighConfidence    float64       `yaml:"high_confidence"    env:"VOICE_HIGH_CONFIDENCE"    env-default:"0.8"`
	MediumConfidence  float64       `yaml:"medium_confidence"  env:"VOICE_MEDIUM_CONFIDENCE"  env-default:"0.5"`
	MatchThreshold    float64       `yaml:"match_threshold"    env:"VOICE_MATCH_THRESHOLD"    env-default:"0.8"`
	BackgroundTimeout time.Duration `yaml:"background_timeout" env:"VOICE_BACKGROUND_TIMEOUT" env-default:"45s"`
	MaxTextLength     int           `yaml:"max_text_length"    env:"VOICE_MAX_TEXT_LENGTH"    env-default:"2000"`
	DefaultLocale     string        `yaml:"default_locale"     env:"VOICE_DEFAULT_LOCALE"     env-default:"de-DE"`
}

// LLMConfig holds settings for the text-understanding model.
type LLMConfig struct {
	APIKey    string        `yaml:"api_key"    env:"LLM_API_KEY"`
	BaseURL   string        `yaml:"base_url"   env:"LLM_BASE_URL"`
	Model     string        `yaml:"model"      env:"LLM_MODEL"      env-default:"claude-haiku-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"30s"`
	// MaxRetries is passed to the SDK client; interpretation failures themselves are never retried.
	MaxRetries int `yaml:"max_retries" env:"LLM_MAX_RETRIES" env-default:"2"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AllowedOriginList splits the comma-separated origin setting.
func (c CORSConfig) AllowedOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

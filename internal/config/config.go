// Package config handles loading and validating the copilot configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration for the copilot daemon.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Transports  TransportsConfig  `mapstructure:"transports"`
	Translation TranslationConfig `mapstructure:"translation"`
	TTS         TTSConfig         `mapstructure:"tts"`
	Session     SessionConfig     `mapstructure:"session"`
	Targets     map[string]Target `mapstructure:"targets"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
	NATS NATSConfig `mapstructure:"nats"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP/WebSocket transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// NATSConfig configures the NATS request/reply transport.
type NATSConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	SubjectPrefix string        `mapstructure:"subject_prefix"` // subjects are <prefix>.process, <prefix>.execute, ...
	Name          string        `mapstructure:"name"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// TranslationConfig selects and configures the machine translation backend.
type TranslationConfig struct {
	Backend   string        `mapstructure:"backend"`   // "none", "google", "libre" or "openai"
	Canonical string        `mapstructure:"canonical"` // working language of the classifier
	Timeout   time.Duration `mapstructure:"timeout"`   // bound on every translation call
	Proxy     string        `mapstructure:"proxy"`     // optional SOCKS5 proxy (host:port)
	Google    GoogleConfig  `mapstructure:"google"`
	Libre     LibreConfig   `mapstructure:"libre"`
	OpenAI    OpenAIConfig  `mapstructure:"openai"`
}

// GoogleConfig holds settings for the public Google Translate endpoint.
type GoogleConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// LibreConfig holds LibreTranslate settings.
type LibreConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// OpenAIConfig holds settings for LLM-backed translation.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // OpenAI-compatible servers (Ollama, vLLM)
}

// Target defines a downstream actuation service in the config file.
type Target struct {
	Endpoint string `mapstructure:"endpoint"`
	Protocol string `mapstructure:"protocol"`
	Token    string `mapstructure:"token"`
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
//
// Endpoints maps language codes to per-language Wyoming servers; Endpoint is
// the fallback for languages without their own instance.
type PiperConfig struct {
	Endpoint  string            `mapstructure:"endpoint"`
	Endpoints map[string]string `mapstructure:"endpoints"`
	Voices    map[string]string `mapstructure:"voices"`
}

// SessionConfig configures where the last resolved command is mirrored.
type SessionConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis snapshot mirror.
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Flags registers the command-line flags understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to config file (e.g. configs/copilot.yaml)")
	fs.StringP("log-level", "l", "", "log level override (debug, info, warn, error)")
	fs.String("translation-backend", "", "translation backend override (none, google, libre, openai)")
	fs.Bool("version", false, "print version and exit")
}

// Load reads the configuration from file, environment variables, flags and defaults.
// If the --config flag is set it is used directly; otherwise the standard search
// order applies: ./copilot.yaml, ./configs/copilot.yaml, /etc/copilot/copilot.yaml.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var configFile string
	if fs != nil {
		configFile, _ = fs.GetString("config")
		if f := fs.Lookup("log-level"); f != nil && f.Changed {
			if err := v.BindPFlag("logging.level", f); err != nil {
				return nil, fmt.Errorf("binding log-level flag: %w", err)
			}
		}
		if f := fs.Lookup("translation-backend"); f != nil && f.Changed {
			if err := v.BindPFlag("translation.backend", f); err != nil {
				return nil, fmt.Errorf("binding translation-backend flag: %w", err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("copilot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/copilot")
	}

	// Environment variables: COPILOT_SERVER_HEALTH_PORT, COPILOT_TRANSLATION_BACKEND, etc.
	v.SetEnvPrefix("COPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}").
	cfg.Translation.OpenAI.APIKey = resolveEnvRef(cfg.Translation.OpenAI.APIKey)
	cfg.Translation.Libre.APIKey = resolveEnvRef(cfg.Translation.Libre.APIKey)
	cfg.Session.Redis.URL = resolveEnvRef(cfg.Session.Redis.URL)
	for name, target := range cfg.Targets {
		target.Token = resolveEnvRef(target.Token)
		cfg.Targets[name] = target
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 5000)
	v.SetDefault("transports.nats.enabled", false)
	v.SetDefault("transports.nats.url", "nats://localhost:4222")
	v.SetDefault("transports.nats.subject_prefix", "copilot")
	v.SetDefault("transports.nats.name", "copilot")
	v.SetDefault("transports.nats.timeout", 10*time.Second)
	v.SetDefault("translation.backend", "google")
	v.SetDefault("translation.canonical", "en")
	v.SetDefault("translation.timeout", 5*time.Second)
	v.SetDefault("translation.proxy", "")
	v.SetDefault("translation.google.endpoint", "https://translate.googleapis.com/translate_a/single")
	v.SetDefault("translation.libre.endpoint", "http://localhost:5001/translate")
	v.SetDefault("translation.openai.model", "gpt-4o-mini")
	v.SetDefault("tts.enabled", false)
	v.SetDefault("tts.backend", "piper")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("session.redis.enabled", false)
	v.SetDefault("session.redis.url", "redis://localhost:6379/0")
	v.SetDefault("session.redis.key", "copilot:context:last")
	v.SetDefault("session.redis.ttl", 30*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	switch c.Translation.Backend {
	case "none", "google", "libre", "openai":
	default:
		return fmt.Errorf("unknown translation backend %q", c.Translation.Backend)
	}
	if c.Translation.Timeout <= 0 {
		return fmt.Errorf("translation.timeout must be positive, got %s", c.Translation.Timeout)
	}
	if c.Translation.Canonical == "" {
		return fmt.Errorf("translation.canonical must not be empty")
	}
	for name, t := range c.Targets {
		switch t.Protocol {
		case "http", "grpc", "nats":
		default:
			return fmt.Errorf("target %q: unsupported protocol %q", name, t.Protocol)
		}
		if t.Endpoint == "" {
			return fmt.Errorf("target %q: endpoint is required", name)
		}
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, cfg)))
}

// NewHandler builds the slog handler described by cfg: JSON by default,
// colorized text (tint) when format is "text".
func NewHandler(w io.Writer, cfg LoggingConfig) slog.Handler {
	level := ParseLevel(cfg.Level)
	if strings.ToLower(cfg.Format) == "text" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package types

import "time"

// HTTPConfig holds shared HTTP settings used for outbound requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rejected-theories/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// WikipediaConfig holds settings for the search and extract calls.
type WikipediaConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIBase is the MediaWiki action API endpoint.
	APIBase string `json:"api_base" yaml:"api_base" mapstructure:"api_base"`

	// PageBase is the base URL display links are built on (…/?curid=<id>).
	PageBase string `json:"page_base" yaml:"page_base" mapstructure:"page_base"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout and WriteTimeout bound a single HTTP exchange.
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// SessionTTL is how long an idle browser session keeps its view state.
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl" mapstructure:"session_ttl"`

	// MaxSessions caps the number of live sessions held in memory.
	MaxSessions int `json:"max_sessions" yaml:"max_sessions" mapstructure:"max_sessions"`

	// AllowedOrigins lists the origins allowed to call /api/* cross-origin.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File, when set, sends logs to a rotating file instead of stderr.
	File       string `json:"file" yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
}

// AnimationConfig holds the card entrance animation parameters.
type AnimationConfig struct {
	// Offset is how far (px) a card slides up while fading in.
	Offset int `json:"offset" yaml:"offset" mapstructure:"offset"`

	Duration time.Duration `json:"duration" yaml:"duration" mapstructure:"duration"`
	Delay    time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
	Easing   string        `json:"easing" yaml:"easing" mapstructure:"easing"`

	// CardDelay overrides Delay on each card. Every card gets the same value.
	CardDelay time.Duration `json:"card_delay" yaml:"card_delay" mapstructure:"card_delay"`
}

// Config groups all settings.
type Config struct {
	Wikipedia WikipediaConfig `json:"wikipedia" yaml:"wikipedia" mapstructure:"wikipedia"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Animation AnimationConfig `json:"animation" yaml:"animation" mapstructure:"animation"`
}

// DefaultConfig returns the built-in settings every config source is
// layered on.
func DefaultConfig() Config {
	return Config{
		Wikipedia: WikipediaConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "rejected-theories/0.1",
			},
			APIBase:  "https://en.wikipedia.org/w/api.php",
			PageBase: "https://en.wikipedia.org/",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			SessionTTL:   30 * time.Minute,
			MaxSessions:  1024,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Animation: AnimationConfig{
			Offset:    100,
			Duration:  800 * time.Millisecond,
			Delay:     100 * time.Millisecond,
			Easing:    "ease-in-sine",
			CardDelay: 300 * time.Millisecond,
		},
	}
}

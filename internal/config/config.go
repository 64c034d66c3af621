package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Huddle/internal/turn"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "HUDDLE"

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	LogLevel   string `mapstructure:"log_level"`
	Secret     string `mapstructure:"secret"`

	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	WriteWait    time.Duration `mapstructure:"write_wait"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	Backpressure string        `mapstructure:"backpressure"`

	Room    RoomConfig    `mapstructure:"room"`
	ICE     ICEConfig     `mapstructure:"ice"`
	TURN    TURNConfig    `mapstructure:"turn"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type RoomConfig struct {
	MaxParticipants int `mapstructure:"max_participants"`
	MaxDisplayName  int `mapstructure:"max_display_name"`
	MaxMessage      int `mapstructure:"max_message"`
}

type ICEConfig struct {
	STUNURLs []string `mapstructure:"stun_urls"`
	TURNURLs []string `mapstructure:"turn_urls"`
}

type TURNConfig struct {
	SharedSecret   string        `mapstructure:"shared_secret"`
	TTL            time.Duration `mapstructure:"ttl"`
	UsernamePrefix string        `mapstructure:"username_prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default). A missing
// file is not an error; HUDDLE_* environment variables override both.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Int("max_participants", cfg.Room.MaxParticipants).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 5002)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("backpressure", "disconnect")

	v.SetDefault("room.max_participants", 4)
	v.SetDefault("room.max_display_name", 64)
	v.SetDefault("room.max_message", 4096)

	v.SetDefault("ice.stun_urls", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("ice.turn_urls", []string{})
	v.SetDefault("turn.shared_secret", "")
	v.SetDefault("turn.ttl", "1h")
	v.SetDefault("turn.username_prefix", "huddle")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("cors.allowed_origin", "*")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Room.MaxParticipants <= 0 {
		errs = append(errs, errors.New("room.max_participants must be > 0"))
	}
	if c.Room.MaxDisplayName <= 0 {
		errs = append(errs, errors.New("room.max_display_name must be > 0"))
	}
	if c.Room.MaxMessage <= 0 {
		errs = append(errs, errors.New("room.max_message must be > 0"))
	}
	if c.SendBuffer <= 0 {
		errs = append(errs, errors.New("send_buffer must be > 0"))
	}
	if c.ReadLimit <= 0 {
		errs = append(errs, errors.New("read_limit must be > 0"))
	}
	if c.PingPeriod <= 0 || c.PongWait <= c.PingPeriod {
		errs = append(errs, errors.New("pong_wait must be longer than a positive ping_period"))
	}
	if err := turn.ValidateURLs(c.ICE.STUNURLs, false); err != nil {
		errs = append(errs, fmt.Errorf("ice.stun_urls: %w", err))
	}
	if err := turn.ValidateURLs(c.ICE.TURNURLs, true); err != nil {
		errs = append(errs, fmt.Errorf("ice.turn_urls: %w", err))
	}
	if len(c.ICE.TURNURLs) > 0 && c.TURN.SharedSecret == "" {
		errs = append(errs, errors.New("ice.turn_urls require turn.shared_secret"))
	}
	return errors.Join(errs...)
}

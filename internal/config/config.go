// Package config loads the application configuration from defaults, an optional
// YAML file and KATALOG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"katalog/internal/messages"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "KATALOG"
	configFileEnvName = "KATALOG_CONFIG_FILE"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Server struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type UI struct {
	Language string `mapstructure:"language"`
}

type Catalog struct {
	Backend   string `mapstructure:"backend" validate:"oneof=memory sqlite"`
	SQLiteDSN string `mapstructure:"sqlite_dsn" validate:"required_if=Backend sqlite"`
}

type Session struct {
	Secret        string        `mapstructure:"secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

type Auth struct {
	Username     string `mapstructure:"username" validate:"required_with=PasswordHash"`
	PasswordHash string `mapstructure:"password_hash" validate:"required_with=Username"`
}

// Enabled reports whether basic auth protects the editor.
func (a Auth) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

type Events struct {
	RabbitMQURL string `mapstructure:"rabbitmq_url" validate:"omitempty,url"`
	Queue       string `mapstructure:"queue" validate:"required"`
}

// Enabled reports whether catalog events are published.
func (e Events) Enabled() bool {
	return e.RabbitMQURL != ""
}

// Config is the full application configuration.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	UI      UI      `mapstructure:"ui"`
	Catalog Catalog `mapstructure:"catalog"`
	Session Session `mapstructure:"session"`
	Auth    Auth    `mapstructure:"auth"`
	Events  Events  `mapstructure:"events"`
}

// Flags are the command line options of the katalog binary.
type Flags struct {
	ConfigFile   string
	HashPassword string
}

// ParseFlags parses the command line. KATALOG_CONFIG_FILE overrides --config.
func ParseFlags(args []string) (Flags, error) {
	cmdLine := pflag.NewFlagSet("katalog", pflag.ContinueOnError)
	configFile := cmdLine.String("config", "", "path to a YAML config file")
	hashPassword := cmdLine.String("hash-password", "", "print the bcrypt hash of the given password and exit")
	if err := cmdLine.Parse(args); err != nil {
		return Flags{}, err
	}

	flags := Flags{ConfigFile: *configFile, HashPassword: *hashPassword}
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		flags.ConfigFile = env
	}
	return flags, nil
}

// Load reads the configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s failed on the '%s' tag", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := messages.For(c.UI.Language); err != nil {
		return fmt.Errorf("invalid config: ui.language: %w", err)
	}
	return nil
}

// setDefaults registers every key, which also makes AutomaticEnv see it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("ui.language", messages.English.Language)

	v.SetDefault("catalog.backend", BackendMemory)
	v.SetDefault("catalog.sqlite_dsn", "file::memory:?cache=shared")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.token_ttl", 12*time.Hour)
	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)

	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password_hash", "")

	v.SetDefault("events.rabbitmq_url", "")
	v.SetDefault("events.queue", "catalog_events")
}

// String renders the configuration without secrets.
func (c Config) String() string {
	return fmt.Sprintf("server.addr=%s log.level=%s ui.language=%s catalog.backend=%s session.token_ttl=%v session.idle_timeout=%v auth.enabled=%t events.enabled=%t events.queue=%s",
		c.Server.Addr,
		c.Log.Level,
		c.UI.Language,
		c.Catalog.Backend,
		c.Session.TokenTTL,
		c.Session.IdleTimeout,
		c.Auth.Enabled(),
		c.Events.Enabled(),
		c.Events.Queue,
	)
}

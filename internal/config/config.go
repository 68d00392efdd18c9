package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. FLOR_WEB_SERVER_ADDR.
const EnvPrefix = "FLOR_WEB"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Dev       bool            `mapstructure:"dev"`
	Lang      LangConfig      `mapstructure:"lang"`
	Cart      CartConfig      `mapstructure:"cart"`
	Catalogue CatalogueConfig `mapstructure:"catalogue"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type LangConfig struct {
	Default   string   `mapstructure:"default"`
	Supported []string `mapstructure:"supported"`
}

type CartConfig struct {
	CookieName   string `mapstructure:"cookie_name"`
	SigningKey   string `mapstructure:"signing_key"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
	MaxBytes     int    `mapstructure:"max_bytes"`
}

type CatalogueConfig struct {
	// Path of a YAML catalogue on disk. Empty means the embedded sample catalogue.
	Path string `mapstructure:"path"`
}

// Option customises Load.
type Option func(*loadOptions)

type loadOptions struct {
	file  string
	viper *viper.Viper
}

// WithFile reads the given config file instead of searching the default locations.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.file = path }
}

// WithViper loads through an existing viper instance, typically one with CLI flags bound.
func WithViper(v *viper.Viper) Option {
	return func(o *loadOptions) { o.viper = v }
}

// SetDefaults registers every key with its default so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("dev", false)
	v.SetDefault("lang.default", "en")
	v.SetDefault("lang.supported", []string{"en", "fil"})
	v.SetDefault("cart.cookie_name", "florCart")
	v.SetDefault("cart.signing_key", "")
	v.SetDefault("cart.secure_cookie", false)
	v.SetDefault("cart.max_bytes", 4096)
	v.SetDefault("catalogue.path", "")
}

// Load resolves configuration from defaults, an optional flor-web.yaml and FLOR_WEB_*
// environment variables, in increasing precedence.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	v := o.viper
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.file != "" {
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", o.file, err)
		}
	} else {
		v.SetConfigName("flor-web")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath("/etc/flor-web/")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	// Port resolution: explicit address, then Cloud Run's PORT, else 8080
	if c.Server.Addr == "" {
		port := strings.TrimSpace(os.Getenv("PORT"))
		if port == "" {
			port = "8080"
		}
		c.Server.Addr = ":" + port
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Lang.Default = strings.ToLower(strings.TrimSpace(c.Lang.Default))
	for i, l := range c.Lang.Supported {
		c.Lang.Supported[i] = strings.ToLower(strings.TrimSpace(l))
	}
	c.Cart.CookieName = strings.TrimSpace(c.Cart.CookieName)
}

// Validate reports every missing or invalid field at once.
func (c *Config) Validate() error {
	var bad []string
	if c.Server.Addr == "" {
		bad = append(bad, "server.addr")
	}
	if c.Server.RequestTimeout <= 0 {
		bad = append(bad, "server.request_timeout")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		bad = append(bad, "log.level")
	}
	if c.Lang.Default == "" {
		bad = append(bad, "lang.default")
	} else if !containsString(c.Lang.Supported, c.Lang.Default) {
		bad = append(bad, "lang.supported")
	}
	if c.Cart.CookieName == "" || strings.ContainsAny(c.Cart.CookieName, " ;,=") {
		bad = append(bad, "cart.cookie_name")
	}
	if c.Cart.MaxBytes < 256 {
		bad = append(bad, "cart.max_bytes")
	}
	if !c.Dev && c.Cart.SecureCookie && c.Cart.SigningKey == "" {
		bad = append(bad, "cart.signing_key")
	}
	if len(bad) > 0 {
		return &ValidationError{fields: bad}
	}
	return nil
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

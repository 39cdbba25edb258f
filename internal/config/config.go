package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr        string
		BasePath    string
		CORSOrigins []string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret         string
		TokenTTL          time.Duration
		ResetTTL          time.Duration
		BcryptCost        int
		RequireResetToken bool
	}
	Mail struct {
		Host       string
		Username   string
		Password   string
		From       string
		SkipVerify bool
		Timeout    time.Duration
		ResetURL   string
		Subject    string
	}
	Templates struct {
		Bucket   string
		Key      string
		Region   string
		Endpoint string
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level string
	}
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("auth jwt secret is required")

// Load reads configuration from environment variables and optional config files.
// Variables in a local .env file never override ones already set.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file

	v := viper.New()
	v.SetEnvPrefix("MUUAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// a comma separated env value arrives as one element
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.basepath", "")
	v.SetDefault("server.corsorigins", []string{})
	v.SetDefault("database.path", "data/muuapp.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 168*time.Hour)
	v.SetDefault("auth.resetttl", 30*time.Minute)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.requireresettoken", false)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "MuuApp <no-reply@muuapp.mx>")
	v.SetDefault("mail.skipverify", false)
	v.SetDefault("mail.timeout", 15*time.Second)
	v.SetDefault("mail.reseturl", "http://localhost:3000/recovery-password")
	v.SetDefault("mail.subject", "")
	v.SetDefault("templates.bucket", "")
	v.SetDefault("templates.key", "templates/reset_password.html")
	v.SetDefault("templates.region", "us-east-1")
	v.SetDefault("templates.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.ResetTTL <= 0 {
		return fmt.Errorf("auth reset ttl must be positive, got %s", c.Auth.ResetTTL)
	}
	return nil
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

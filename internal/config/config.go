package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Host string
		Port int
	}
	Database struct {
		Path string
	}
	Session struct {
		Secret     string
		CookieName string
		TTLMinutes int
		Secure     bool
	}
	Index struct {
		Email string
	}
	Backup struct {
		Bucket          string
		KeyPrefix       string
		Region          string
		Endpoint        string
		IntervalMinutes int
		Keep            int
	}
	AWS struct {
		Profile string
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c Config) BackupInterval() time.Duration {
	return time.Duration(c.Backup.IntervalMinutes) * time.Minute
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// variables already present in the environment win over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// IP and PORT are honoured for hosts that only set those.
	if err := v.BindEnv("server.host", "NOTES_SERVER_HOST", "IP"); err != nil {
		return Config{}, fmt.Errorf("bind server.host: %w", err)
	}
	if err := v.BindEnv("server.port", "NOTES_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind server.port: %w", err)
	}

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("database.path", "data/notes.db")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookiename", "session")
	v.SetDefault("session.ttlminutes", 31*24*60)
	v.SetDefault("session.secure", false)
	v.SetDefault("index.email", "")
	v.SetDefault("backup.bucket", "")
	v.SetDefault("backup.keyprefix", "notes-snapshots")
	v.SetDefault("backup.region", "us-east-1")
	v.SetDefault("backup.endpoint", "")
	v.SetDefault("backup.intervalminutes", 60)
	v.SetDefault("backup.keep", 24)
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the API server.
type Config struct {
	APIPort  int    `mapstructure:"apiPort"`
	Env      string `mapstructure:"env"`
	Database struct {
		Type        string `mapstructure:"type"` // "postgres" or "sqlite"
		URL         string `mapstructure:"url"`  // postgres connection string
		Path        string `mapstructure:"path"` // sqlite file path
		AutoMigrate bool   `mapstructure:"autoMigrate"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret string        `mapstructure:"jwtSecret"`
		TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	} `mapstructure:"auth"`
	Gemini struct {
		APIKey string `mapstructure:"apiKey"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`
	Storage struct {
		Type            string `mapstructure:"type"` // "local" or "s3"
		LocalDir        string `mapstructure:"localDir"`
		Endpoint        string `mapstructure:"endpoint"`
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		AccessKeyID     string `mapstructure:"accessKeyId"`
		SecretAccessKey string `mapstructure:"secretAccessKey"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: could not read config file: %s. Using defaults and environment variables.", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 3001
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Database.Type == "" {
		if cfg.Database.URL != "" {
			cfg.Database.Type = "postgres"
		} else {
			cfg.Database.Type = "sqlite"
		}
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/startupbuilder.db"
	}
	if !v.IsSet("database.autoMigrate") {
		// Migrations run automatically outside production deployments.
		cfg.Database.AutoMigrate = cfg.Env != "production"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-flash-latest"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./uploads"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

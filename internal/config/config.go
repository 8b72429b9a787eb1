package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Features FeaturesConfig
	LogLevel string
	LogDev   bool
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	AllowedHosts    []string
	ShutdownTimeout int // seconds
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret string
}

// FeaturesConfig holds the defaults used when the system settings document
// does not exist yet.
type FeaturesConfig struct {
	RewardsEnabled       bool
	RewardsPausedMessage string
}

// Load loads configuration from config files and environment variables.
// Environment keys use underscores, e.g. SERVER_PORT or MONGODB_URI.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	v.SetDefault("Server.ShutdownTimeout", 5)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MongoDB.Database", "tools-australia")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("Features.RewardsEnabled", true)
	v.SetDefault("Features.RewardsPausedMessage", "Rewards are temporarily paused. Please try again later.")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogDev", false)
}

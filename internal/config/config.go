package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Addr  string `mapstructure:"addr"`
	Redis Redis  `mapstructure:"redis"`
	Mongo Mongo  `mapstructure:"mongo"`
}

type Redis struct {
	Addr string `mapstructure:"addr"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Addr: ":8080",
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "partytime",
		},
	}
}

// Load merges an optional config file and PARTYTIME_* env vars over the
// defaults already present in config; config must be a pointer.
func Load(file string, config any) error {
	v := viper.New()
	m := make(map[string]any)

	if err := mapstructure.Decode(config, &m); err != nil {
		return fmt.Errorf("mapstructure: %v", err)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("merge config map: %v", err)
	}

	v.SetEnvPrefix("partytime")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config from file %s: %v", file, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshal config: %v", err)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory and lets environment
// variables override (EARNINGS_MYSQL_HOST overrides mysql.host).
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")

	config.SetEnvPrefix("EARNINGS")
	config.AutomaticEnv()

	if err := config.ReadInConfig(); err != nil {
		fmt.Printf("config file not loaded, relying on defaults and env: %v\n", err)
	}

	return config
}

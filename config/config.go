package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	App  AppConfig
	DB   DBConfig
	Rate RateConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RateConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	rps := viper.GetFloat64("RATE_LIMIT_RPS")
	if rps <= 0 {
		rps = 10
	}
	burst := viper.GetInt("RATE_LIMIT_BURST")
	if burst <= 0 {
		burst = 20
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Rate: RateConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
	}

	return config, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	shared "keepnotes/internal/config"
)

const (
	SecretKey         = "SecRetKey"
	defaultRunAddress = ":8080"
	defaultLogLevel   = "info"
	defaultAccessTTL  = 15
	defaultRefreshTTL = 24 * 30
)

type Config struct {
	Env    string
	Server server
	Auth   auth
	Logger logger
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type auth struct {
	Secret     string        `env:"SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TTL_MINUTES"`
	RefreshTTL time.Duration `env:"REFRESH_TTL_HOURS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad читает конфигурацию сервера из .env и окружения.
func MustLoad() *Config {
	shared.LoadDotEnv()

	cfg, err := Load(viper.GetViper())
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("access_ttl_minutes", defaultAccessTTL)
	v.SetDefault("refresh_ttl_hours", defaultRefreshTTL)

	secret := v.GetString("secret")
	if secret == "" {
		secret = SecretKey
	}

	cfg := &Config{
		Env:    shared.NormalizeEnv(v.GetString("app_env")),
		Server: server{RunAddress: v.GetString("run_address")},
		Auth: auth{
			Secret:     secret,
			AccessTTL:  time.Duration(v.GetInt("access_ttl_minutes")) * time.Minute,
			RefreshTTL: time.Duration(v.GetInt("refresh_ttl_hours")) * time.Hour,
		},
		Logger: logger{LogLevel: v.GetString("log_level")},
	}

	if cfg.Auth.AccessTTL <= 0 || cfg.Auth.RefreshTTL <= 0 {
		return nil, fmt.Errorf("время жизни токенов должно быть положительным")
	}
	if cfg.Env == shared.EnvProd && secret == SecretKey {
		return nil, fmt.Errorf("в prod необходимо задать SECRET")
	}
	return cfg, nil
}

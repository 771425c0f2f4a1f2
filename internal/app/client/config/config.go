package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	shared "keepnotes/internal/config"
	"keepnotes/internal/utils/retry"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultLogLevel       = "info"
	defaultConfigDir      = ".keepnotes"
	defaultRequestTimeout = 30
	tokenFile             = "token"
	cacheFile             = "cache.db"
)

type Config struct {
	Env               string        `mapstructure:"app_env"`
	ServerAddress     string        `mapstructure:"server_address"`
	EnableTLS         bool          `mapstructure:"enable_tls"`
	LogLevel          string        `mapstructure:"log_level"`
	ConfigDir         string        `mapstructure:"config_dir"`
	TokenPath         string        `mapstructure:"token_path"`
	CachePath         string        `mapstructure:"cache_path"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	UploadMaxAttempts int           `mapstructure:"upload_max_attempts"`
	UploadBackoff     time.Duration `mapstructure:"upload_backoff"`
}

// MustLoad загружает конфигурацию клиента и паникует при ошибке.
func MustLoad(configFile string) *Config {
	shared.LoadDotEnv()

	cfg, err := Load(viper.GetViper(), configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает конфигурацию из файла (если задан или найден в
// ~/.keepnotes/config.yaml) и переменных окружения. Окружение важнее файла.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Устанавливаем значения по умолчанию
	v.SetDefault("APP_ENV", shared.EnvLocal)
	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("ENABLE_TLS", false)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	v.SetDefault("UPLOAD_MAX_ATTEMPTS", retry.DefaultUpload.MaxAttempts)
	v.SetDefault("UPLOAD_BACKOFF_MS", retry.DefaultUpload.Base.Milliseconds())

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir, defaultConfigDir))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("чтение файла конфигурации: %w", err)
		}
	}

	// Вычисляем пути для хранения данных
	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	// Создаем директории если их нет
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("создание директории конфигурации: %w", err)
	}

	cfg := &Config{
		Env:               shared.NormalizeEnv(v.GetString("APP_ENV")),
		ServerAddress:     v.GetString("SERVER_ADDRESS"),
		EnableTLS:         v.GetBool("ENABLE_TLS"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		ConfigDir:         configDir,
		TokenPath:         filepath.Join(configDir, tokenFile),
		CachePath:         filepath.Join(configDir, cacheFile),
		RequestTimeout:    time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		UploadMaxAttempts: v.GetInt("UPLOAD_MAX_ATTEMPTS"),
		UploadBackoff:     time.Duration(v.GetInt("UPLOAD_BACKOFF_MS")) * time.Millisecond,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds должен быть положительным")
	}
	if c.UploadMaxAttempts < 1 {
		return fmt.Errorf("upload_max_attempts должен быть не меньше 1")
	}
	return nil
}

// BaseURL собирает адрес сервера; адрес со схемой используется как есть.
func (c *Config) BaseURL() string {
	addr := strings.TrimRight(c.ServerAddress, "/")
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if c.EnableTLS {
		return "https://" + addr
	}
	return "http://" + addr
}

// UploadPolicy — политика повторов загрузки документов.
func (c *Config) UploadPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: c.UploadMaxAttempts, Base: c.UploadBackoff}
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == shared.EnvProd
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == shared.EnvLocal || c.Env == ""
}

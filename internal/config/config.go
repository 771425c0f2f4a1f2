// Package config holds settings shared by the client and the reference server.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const defaultEnvPath = ".env"

// LoadDotEnv подтягивает переменные из .env (путь можно переопределить
// через KEEPNOTES_ENV_FILE). Отсутствие файла не ошибка.
func LoadDotEnv() {
	path := os.Getenv("KEEPNOTES_ENV_FILE")
	if path == "" {
		path = defaultEnvPath
	}
	if err := godotenv.Load(path); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
}

// NormalizeEnv приводит неизвестное окружение к local.
func NormalizeEnv(env string) string {
	switch env {
	case EnvLocal, EnvDev, EnvProd:
		return env
	default:
		return EnvLocal
	}
}

// Duration reads a duration key and falls back to def when it is unset or
// not parseable.
func Duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d := v.GetDuration(key)
	if d <= 0 {
		return def
	}
	return d
}

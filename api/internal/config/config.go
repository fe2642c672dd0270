package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Endpoint — API статусов домашних работ Практикума.
	Endpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	// PollInterval фиксирован, из окружения не меняется.
	PollInterval = 600 * time.Second
)

type Config struct {
	Port string

	PracticumToken string
	TelegramToken  string
	ChatID         int64

	Endpoint     string
	PollInterval time.Duration

	LogFile     string
	LogLevel    string
	DatabaseURL string
}

func mustEnv(k string, missing *[]string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		*missing = append(*missing, k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// DotEnvFile — необязательный файл с секретами рядом с процессом.
const DotEnvFile = ".env"

// Load читает конфигурацию из окружения (с подгрузкой .env, если он есть).
// Отсутствие любого секрета — ошибка, после которой процесс не должен стартовать.
func Load() (*Config, error) {
	return LoadFrom(DotEnvFile)
}

// LoadFrom — как Load, но .env берётся из envFile. Переменные, уже заданные
// в окружении, файл не перекрывает.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var missing []string
	practicum := mustEnv("PRACTICUM_TOKEN", &missing)
	tg := mustEnv("TELEGRAM_TOKEN", &missing)
	chat := mustEnv("CHAT_ID", &missing)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}

	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, errors.New("CHAT_ID must be an integer chat id")
	}

	return &Config{
		Port: getEnv("PORT", "8000"),

		PracticumToken: practicum,
		TelegramToken:  tg,
		ChatID:         chatID,

		Endpoint:     Endpoint,
		PollInterval: PollInterval,

		LogFile:     getEnv("LOG_FILE", "main.log"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}, nil
}

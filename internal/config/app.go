package config

import (
	"log"
	"os"
	"strconv"
	"sync"
)

type AppConfig struct {
	Name                string
	Env                 string
	Port                string
	BaseURL             string
	InsightRefreshCron  string
	QuizQuestionSeconds int
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		port := os.Getenv("APP_PORT")
		if port == "" {
			port = ":8080"
		}
		cron := os.Getenv("INSIGHT_REFRESH_CRON")
		if cron == "" {
			// Sundays at midnight.
			cron = "0 0 * * 0"
		}
		appConfig = &AppConfig{
			Name:                os.Getenv("APP_NAME"),
			Env:                 env,
			Port:                port,
			BaseURL:             os.Getenv("APP_URL"),
			InsightRefreshCron:  cron,
			QuizQuestionSeconds: intFromEnv("QUIZ_QUESTION_SECONDS", 60),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// intFromEnv returns def when the variable is unset or not a positive integer.
func intFromEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Printf("Warning: %s=%q is invalid, defaulting to %d", key, raw, def)
		return def
	}
	return v
}

package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	WildLensBase    string
	WildLensRPS     int
	RazorpayKey     string
	CacheTTL        time.Duration
	CatalogRefresh  time.Duration
	OrderTimeout    time.Duration
	ToastBufferSize int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		WildLensBase:    env("WILDLENS_BASE_URL", "http://localhost:3000/api/user"),
		WildLensRPS:     atoi("WILDLENS_RPS", 5),
		RazorpayKey:     env("RAZORPAY_KEY_ID", ""),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		CatalogRefresh:  time.Duration(atoi("CATALOG_REFRESH_SECONDS", 900)) * time.Second,
		OrderTimeout:    time.Duration(atoi("ORDER_TIMEOUT_SECONDS", 15)) * time.Second,
		ToastBufferSize: atoi("TOAST_BUFFER", 32),
	}
	if c.RazorpayKey == "" {
		log.Warn().Msg("RAZORPAY_KEY_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

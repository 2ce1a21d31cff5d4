package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	YouthPolicy YouthPolicyConfig
	Ranking     RankingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Timezone    string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type YouthPolicyConfig struct {
	ApiUrl             string
	ApiKey             string
	PageSize           int
	PageDelay          time.Duration
	RetryDelay         time.Duration
	MaxRetries         int
	HttpTimeout        time.Duration
	RegionCodeDataPath string
	RefreshCron        string
	RefreshTimeout     time.Duration
}

type RankingConfig struct {
	HotCacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	pageSize, err := strconv.Atoi(getEnv("YOUTH_POLICY_PAGE_SIZE", "50"))
	if err != nil || pageSize <= 0 {
		return nil, errors.New("invalid youth policy page size")
	}

	maxRetries, err := strconv.Atoi(getEnv("YOUTH_POLICY_MAX_RETRIES", "3"))
	if err != nil || maxRetries < 0 {
		return nil, errors.New("invalid youth policy max retries")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Youth Policy Hub"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Timezone:    getEnv("APP_TIMEZONE", "Asia/Seoul"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getEnvDuration("SERVER_REQUEST_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "youth_policy_hub"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		YouthPolicy: YouthPolicyConfig{
			ApiUrl:             getEnv("YOUTH_POLICY_API_URL", "https://www.youthcenter.go.kr/go/ythip/getPlcy"),
			ApiKey:             getEnv("YOUTH_POLICY_API_KEY", ""),
			PageSize:           pageSize,
			PageDelay:          getEnvDuration("YOUTH_POLICY_PAGE_DELAY", 500*time.Millisecond),
			RetryDelay:         getEnvDuration("YOUTH_POLICY_RETRY_DELAY", 2*time.Second),
			MaxRetries:         maxRetries,
			HttpTimeout:        getEnvDuration("YOUTH_POLICY_HTTP_TIMEOUT", 10*time.Second),
			RegionCodeDataPath: getEnv("REGION_CODE_DATA_PATH", "data/legal_dong_codes.tsv"),
			RefreshCron:        getEnv("REFRESH_CRON", "0 0 0 * * *"),
			RefreshTimeout:     getEnvDuration("REFRESH_TIMEOUT", 30*time.Minute),
		},
		Ranking: RankingConfig{
			HotCacheTTL: getEnvDuration("HOT_CACHE_TTL", time.Hour),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.YouthPolicy.ApiKey == "" {
		return nil, errors.New("missing youth policy api key")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

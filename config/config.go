package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Metrics    MetricsConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	TimeZone    string
	AutoMigrate bool
	LogLevel    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig tunes slot generation and the booking lock.
type SchedulingConfig struct {
	SlotStep    time.Duration
	LockBackend string // "redis" or "local"
	LockTTL     time.Duration
	LockWait    time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

const (
	LockBackendRedis = "redis"
	LockBackendLocal = "local"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_TIMEZONE", "Local")
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("SCHEDULING_SLOT_STEP_MINUTES", 15)
	viper.SetDefault("SCHEDULING_LOCK_BACKEND", LockBackendRedis)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_PATH", "/metrics")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	lockTTL, err := time.ParseDuration(viper.GetString("SCHEDULING_LOCK_TTL"))
	if err != nil {
		lockTTL = 10 * time.Second
	}

	lockWait, err := time.ParseDuration(viper.GetString("SCHEDULING_LOCK_WAIT"))
	if err != nil {
		lockWait = 3 * time.Second
	}

	slotStep := time.Duration(viper.GetInt("SCHEDULING_SLOT_STEP_MINUTES")) * time.Minute
	if slotStep <= 0 {
		slotStep = 15 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			TimeZone:    viper.GetString("DB_TIMEZONE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
			LogLevel:    viper.GetString("DB_LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			SlotStep:    slotStep,
			LockBackend: viper.GetString("SCHEDULING_LOCK_BACKEND"),
			LockTTL:     lockTTL,
			LockWait:    lockWait,
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
	}

	return config, nil
}

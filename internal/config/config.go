package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:5454"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
}

type Storage struct {
	// Path of the JSON file backing local key-value storage. Created on
	// first write with 0600 permissions.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:""`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Metrics struct {
	// Local listen address for the Prometheus endpoint; empty disables it.
	Addr string `yaml:"address" env:"METRICS_ADDR" env-default:""`
}

type Tracing struct {
	// OTLP/HTTP collector endpoint; empty disables tracing.
	Endpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT" env-default:""`
}

type Checkout struct {
	DefaultCountry       string `yaml:"default_country" env:"CHECKOUT_COUNTRY" env-default:"Sri Lanka"`
	DefaultPaymentMethod string `yaml:"default_payment_method" env:"CHECKOUT_PAYMENT_METHOD" env-default:"RAZORPAY"`
}

type Config struct {
	Env          string       `yaml:"env" env:"ENV" env-default:"local"`
	API          API          `yaml:"api"`
	Storage      Storage      `yaml:"storage"`
	RedisConnect RedisConnect `yaml:"redis"`
	Metrics      Metrics      `yaml:"metrics"`
	Tracing      Tracing      `yaml:"tracing"`
	Checkout     Checkout     `yaml:"checkout"`
}

// MustLoad reads configuration from the given file, falling back to the
// CONFIG_PATH variable, falling back to environment variables alone.
func MustLoad(configPath string) *Config {

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	if configPath == "" {
		// No file; environment variables and defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {

		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg

}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s/%d",
		r.Username, r.Password, r.Host, r.DB)
}

// UseRedis reports whether redis-backed storage is configured.
func (r *RedisConnect) UseRedis() bool {
	return r.Host != ""
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env             string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP            HTTPConfig      `yaml:"http"`
	AccessTokenTTL  time.Duration   `yaml:"access_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration   `yaml:"refresh_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	AccessSecret    string          `yaml:"access_secret" env:"JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret   string          `yaml:"refresh_secret" env:"JWT_REFRESH_SECRET" env-required:"true"`
	DB              DBConfig        `yaml:"postgres"`
	RedisAddress    string          `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	OTP             OTPConfig       `yaml:"otp"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

type HTTPConfig struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:":8080"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"DB_NAME" env-default:"postgres"`
	Sslmode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

// OTPConfig describes the external SMS verification provider.
type OTPConfig struct {
	SendURL            string `yaml:"send_url" env:"OTP_SEND_URL"`
	ValidateURL        string `yaml:"validate_url" env:"OTP_VALIDATE_URL"`
	CustomerID         string `yaml:"customer_id" env:"OTP_CUSTOMER_ID"`
	AuthToken          string `yaml:"auth_token" env:"OTP_AUTH_TOKEN"`
	DefaultCountryCode string `yaml:"default_country_code" env:"OTP_DEFAULT_COUNTRY_CODE" env-default:"91"`
}

type RateLimitConfig struct {
	Window    time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	Max       int           `yaml:"max" env:"RATE_LIMIT_MAX" env-default:"10"`
	OtpWindow time.Duration `yaml:"otp_window" env:"OTP_LIMIT_WINDOW" env-default:"5m"`
	OtpMax    int           `yaml:"otp_max" env:"OTP_LIMIT_MAX" env-default:"5"`
}

func (db DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Dbname, db.Sslmode)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func Load(path string) *Config {
	var config Config
	err := cleanenv.ReadConfig(path, &config)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &config
}

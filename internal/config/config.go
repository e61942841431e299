package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		APIPrefix   string   `yaml:"api_prefix"`
		CORSOrigins []string `yaml:"cors_origins"`
		FrontendURL string   `yaml:"frontend_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret    string `yaml:"secret"`
		Algorithm string `yaml:"algorithm"`
		// Время жизни access-токена в минутах
		TTL int `yaml:"ttl"`
	} `yaml:"jwt"`

	Mail struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		FromName string `yaml:"from_name"`
		Server   string `yaml:"server"`
		Port     int    `yaml:"port"`
		StartTLS bool   `yaml:"starttls"`
		SSLTLS   bool   `yaml:"ssl_tls"`
	} `yaml:"mail"`

	// Twilio опционален: без него SMS отключены, старт не падает
	SMS struct {
		AccountSID  string `yaml:"account_sid"`
		AuthToken   string `yaml:"auth_token"`
		PhoneNumber string `yaml:"phone_number"`
	} `yaml:"sms"`

	Redis struct {
		URL      string `yaml:"url"`
		CacheTTL int    `yaml:"cache_ttl"` // секунды
	} `yaml:"redis"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

// Default возвращает конфиг со значениями по умолчанию
func Default() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Server.Env = "development"
	cfg.Server.APIPrefix = "/api/v1"
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.JWT.Algorithm = "HS256"
	cfg.JWT.TTL = 30
	cfg.Mail.Server = "smtp.gmail.com"
	cfg.Mail.Port = 587
	cfg.Mail.FromName = "Job Alert"
	cfg.Mail.StartTLS = true
	cfg.Redis.CacheTTL = 300
	return &cfg
}

// Load собирает конфиг: defaults -> config.yaml (если есть) -> .env (если есть) -> окружение.
// Путь к yaml берется из CONFIG_PATH, по умолчанию config/config.yaml.
func Load() (*Config, error) {
	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// applyEnv переопределяет поля переменными окружения. getenv передается явно для тестов.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	setBool := func(key string, dst *bool) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	setString("DATABASE_URL", &c.Database.DSN)
	setString("SECRET_KEY", &c.JWT.Secret)
	setString("ALGORITHM", &c.JWT.Algorithm)
	setString("ENV", &c.Server.Env)
	setString("HOST", &c.Server.Host)
	setString("API_V1_STR", &c.Server.APIPrefix)
	setString("FRONTEND_URL", &c.Server.FrontendURL)
	setString("MAIL_USERNAME", &c.Mail.Username)
	setString("MAIL_PASSWORD", &c.Mail.Password)
	setString("MAIL_FROM", &c.Mail.From)
	setString("MAIL_FROM_NAME", &c.Mail.FromName)
	setString("MAIL_SERVER", &c.Mail.Server)
	setString("TWILIO_ACCOUNT_SID", &c.SMS.AccountSID)
	setString("TWILIO_AUTH_TOKEN", &c.SMS.AuthToken)
	setString("TWILIO_PHONE_NUMBER", &c.SMS.PhoneNumber)
	setString("REDIS_URL", &c.Redis.URL)
	setString("ADMIN_EMAIL", &c.FirstAdminEmail)
	setString("ADMIN_PASSWORD", &c.FirstAdminPassword)

	if origins := getenv("BACKEND_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	for key, dst := range map[string]*int{
		"PORT":                        &c.Server.Port,
		"ACCESS_TOKEN_EXPIRE_MINUTES": &c.JWT.TTL,
		"MAIL_PORT":                   &c.Mail.Port,
		"REDIS_CACHE_TTL":             &c.Redis.CacheTTL,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	if err := setBool("MAIL_STARTTLS", &c.Mail.StartTLS); err != nil {
		return err
	}
	return setBool("MAIL_SSL_TLS", &c.Mail.SSLTLS)
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.JWT.Algorithm != "HS256" {
		return fmt.Errorf("unsupported signing algorithm %q", c.JWT.Algorithm)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

// AccessTokenTTL - время жизни access-токена
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

// SMSEnabled - true, если заданы все параметры Twilio
func (c *Config) SMSEnabled() bool {
	return c.SMS.AccountSID != "" && c.SMS.AuthToken != "" && c.SMS.PhoneNumber != ""
}

// MailEnabled - true, если заданы учетные данные SMTP
func (c *Config) MailEnabled() bool {
	return c.Mail.Username != "" && c.Mail.Password != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr - адрес для http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// splitList принимает "a,b" или JSON-подобный список ["a","b"]
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Backend    BackendConfig
	Generation GenerationConfig
	Server     ServerConfig
	Session    SessionConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Logger     LoggerConfig
}

// BackendConfig points at the remote extraction/generation service.
type BackendConfig struct {
	BaseURL         string        `yaml:"base_url" validate:"required,url"`
	ExtractTimeout  time.Duration `yaml:"extract_timeout" validate:"gt=0"`
	GenerateTimeout time.Duration `yaml:"generate_timeout" validate:"gt=0"`
}

type GenerationConfig struct {
	NumQuestions int `yaml:"num_questions" validate:"gte=0,lte=50"`
}

type ServerConfig struct {
	Port         int           `validate:"gt=0,lte=65535"`
	ReadTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
	BodyLimitMB  int           `yaml:"body_limit_mb" validate:"gt=0"`
}

type SessionConfig struct {
	TTL time.Duration `validate:"gt=0"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	QuestionsTTL time.Duration `yaml:"questions_ttl" validate:"gte=0"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Env   string `yaml:"env"`
	File  string `yaml:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.extract_timeout", "120s")
	v.SetDefault("backend.generate_timeout", "300s")
	v.SetDefault("generation.num_questions", 5)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.body_limit_mb", 20)
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("cache.questions_ttl", "0s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml (optional), a .env file (optional) and the
// process environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := fromViper(v)

	// Override with environment variables if set
	if backendURL := os.Getenv("BACKEND_URL"); backendURL != "" {
		config.Backend.BaseURL = backendURL
	} else if backendURL := os.Getenv("REACT_APP_BACKEND_URL"); backendURL != "" {
		config.Backend.BaseURL = backendURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:         v.GetString("backend.base_url"),
			ExtractTimeout:  v.GetDuration("backend.extract_timeout"),
			GenerateTimeout: v.GetDuration("backend.generate_timeout"),
		},
		Generation: GenerationConfig{
			NumQuestions: v.GetInt("generation.num_questions"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			QuestionsTTL: v.GetDuration("cache.questions_ttl"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
			File:  v.GetString("logger.file"),
		},
	}
}

// Validate checks the struct tags and reports every failing field at once.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// BodyLimitBytes is the maximum accepted upload size for the HTTP front end.
func (c *Config) BodyLimitBytes() int {
	return c.Server.BodyLimitMB * 1024 * 1024
}

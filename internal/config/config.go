package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthConfig struct {
	JWT JWTConfig
	// CookieSecure controls the Secure attribute on auth cookies.
	// Disable only for local development over plain HTTP.
	CookieSecure bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// PipelineConfig holds settings for the quiz generation pipeline.
// WorkDir is the root under which each run creates its own workspace.
type PipelineConfig struct {
	WorkDir        string
	YtdlpPath      string
	WhisperPath    string
	WhisperModel   string
	MaxConcurrency int64
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("auth.access_token_ttl", "15m")
	viper.SetDefault("auth.refresh_token_ttl", "168h")
	viper.SetDefault("auth.cookie_secure", true)
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("pipeline.work_dir", "media")
	viper.SetDefault("pipeline.ytdlp_path", "yt-dlp")
	viper.SetDefault("pipeline.whisper_path", "whisper")
	viper.SetDefault("pipeline.whisper_model", "small")
	viper.SetDefault("pipeline.max_concurrency", 2)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				SecretKey:       viper.GetString("auth.jwt_secret_key"),
				AccessTokenTTL:  viper.GetDuration("auth.access_token_ttl"),
				RefreshTokenTTL: viper.GetDuration("auth.refresh_token_ttl"),
			},
			CookieSecure: viper.GetBool("auth.cookie_secure"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("gemini.api_key"),
			Model:  viper.GetString("gemini.model"),
		},
		Pipeline: PipelineConfig{
			WorkDir:        viper.GetString("pipeline.work_dir"),
			YtdlpPath:      viper.GetString("pipeline.ytdlp_path"),
			WhisperPath:    viper.GetString("pipeline.whisper_path"),
			WhisperModel:   viper.GetString("pipeline.whisper_model"),
			MaxConcurrency: viper.GetInt64("pipeline.max_concurrency"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Environment variables win over file values.
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.Auth.JWT.SecretKey = secret
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		config.Gemini.APIKey = geminiKey
	}

	return config, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}

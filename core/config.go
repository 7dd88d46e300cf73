package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	TelegramApiKey string `yaml:"telegram_api_key" env:"TELEGRAM_API_KEY" env-default:""`
	Username       string `yaml:"username" env:"TELEGRAM_USERNAME" env-default:""`
	Listen         struct {
		Host           string        `yaml:"host" env:"LISTEN_HOST" env-default:"0.0.0.0"`
		Port           string        `yaml:"port" env:"PORT" env-default:"8000"`
		ReadTimeout    time.Duration `yaml:"read_timeout" env:"LISTEN_READ_TIMEOUT" env-default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" env:"LISTEN_WRITE_TIMEOUT" env-default:"180s"`
		StaticDir      string        `yaml:"static_dir" env:"LISTEN_STATIC_DIR" env-default:"static"`
		AllowedOrigins []string      `yaml:"allowed_origins" env:"LISTEN_ALLOWED_ORIGINS" env-default:"*"`
	} `yaml:"listen"`
	OpenAI struct {
		ApiKey      string        `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
		BaseURL     string        `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
		Model       string        `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
		MaxTokens   int           `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"2000"`
		Temperature float64       `yaml:"temperature" env:"OPENAI_TEMPERATURE" env-default:"0.7"`
		Timeout     time.Duration `yaml:"timeout" env:"OPENAI_TIMEOUT" env-default:"120s"`
	} `yaml:"openai"`
	Content struct {
		ChunkTokens int           `yaml:"chunk_tokens" env:"CONTENT_CHUNK_TOKENS" env-default:"1000"`
		ChunkDelay  time.Duration `yaml:"chunk_delay" env:"CONTENT_CHUNK_DELAY" env-default:"1s"`
		MaxLength   int           `yaml:"max_length" env:"CONTENT_MAX_LENGTH" env-default:"100000"`
		MaxTopics   int           `yaml:"max_topics" env:"CONTENT_MAX_TOPICS" env-default:"5"`
	} `yaml:"content"`
	Questions struct {
		Min     int `yaml:"min" env:"QUESTION_MIN_QUESTIONS" env-default:"5"`
		Max     int `yaml:"max" env:"QUESTION_MAX_QUESTIONS" env-default:"15"`
		Default int `yaml:"default" env:"QUESTION_DEFAULT_QUESTIONS" env-default:"10"`
	} `yaml:"questions"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"quizzy"`
	} `yaml:"mongo"`
	RateLimit struct {
		Enabled  bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"false"`
		Addr     string        `yaml:"addr" env:"RATE_LIMIT_REDIS_ADDR" env-default:"127.0.0.1:6379"`
		Password string        `yaml:"password" env:"RATE_LIMIT_REDIS_PASSWORD" env-default:""`
		DB       int           `yaml:"db" env:"RATE_LIMIT_REDIS_DB" env-default:"0"`
		Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS" env-default:"10"`
		Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	} `yaml:"rate_limit"`
	Client struct {
		Endpoint string `yaml:"endpoint" env:"CLIENT_ENDPOINT" env-default:"http://127.0.0.1:8000"`
	} `yaml:"client"`
}

// Load reads the yaml file at path and applies environment overrides.
// A missing file is not an error: the config is then built from the
// environment and defaults only.
func Load(path string) (*Config, error) {
	conf := &Config{}

	var err error
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(conf)
	} else {
		err = cleanenv.ReadConfig(path, conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}

	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return conf, nil
}

func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		panic(err)
	}
	return conf
}

func (c *Config) validate() error {
	q := c.Questions
	if q.Min < 1 {
		return fmt.Errorf("questions.min must be positive, got %d", q.Min)
	}
	if q.Max < q.Min {
		return fmt.Errorf("questions.max (%d) is below questions.min (%d)", q.Max, q.Min)
	}
	if q.Default < q.Min || q.Default > q.Max {
		return fmt.Errorf("questions.default (%d) is outside [%d, %d]", q.Default, q.Min, q.Max)
	}
	if c.Content.ChunkTokens < 1 {
		return fmt.Errorf("content.chunk_tokens must be positive, got %d", c.Content.ChunkTokens)
	}
	return nil
}

// Addr is the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return c.Listen.Host + ":" + c.Listen.Port
}

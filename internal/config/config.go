package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Level - параметры мира: размер поля и число боузеров
type Level struct {
	ID         string `yaml:"-" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Dimension  int    `yaml:"dimensions" json:"dimension"`
	Difficulty int    `yaml:"difficulty" json:"difficulty"` // число боузеров
}

func (l Level) Validate() error {
	if l.Dimension <= 0 {
		return fmt.Errorf("level %q: dimensions must be positive, got %d", l.ID, l.Dimension)
	}
	if l.Difficulty < 0 || l.Difficulty >= l.Dimension*l.Dimension {
		return fmt.Errorf("level %q: difficulty must be in [0, %d), got %d", l.ID, l.Dimension*l.Dimension, l.Difficulty)
	}
	return nil
}

type Config struct {
	AppPort       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	AllowedOrigin string

	LogLevel string
	LogJSON  bool

	MaxTime            time.Duration // время на уровень
	LowTimeThreshold   time.Duration // когда предупреждать о нехватке времени
	ScoreForBlock      int
	RateLimitPerMinute int
	SessionTTL         time.Duration

	Levels       map[string]Level
	DefaultLevel string
}

// значения из оригинальной игры
const (
	defaultMaxTime          = 99 * time.Second
	defaultLowTimeThreshold = 10 * time.Second
	defaultScoreForBlock    = 10
	defaultLevelID          = "1-1"
)

// DefaultLevels - встроенные миры, если файл уровней не задан
func DefaultLevels() map[string]Level {
	return map[string]Level{
		"1-1": {ID: "1-1", Name: "World 1-1", Dimension: 8, Difficulty: 10},
		"1-2": {ID: "1-2", Name: "World 1-2", Dimension: 10, Difficulty: 12},
	}
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AllowedOrigin:      os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogJSON:            os.Getenv("LOG_FORMAT") == "json",
		MaxTime:            getDuration("MAX_TIME", defaultMaxTime),
		LowTimeThreshold:   getDuration("LOW_TIME_THRESHOLD", defaultLowTimeThreshold),
		ScoreForBlock:      getInt("SCORE_FOR_BLOCK", defaultScoreForBlock),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),
		SessionTTL:         getDuration("SESSION_TTL", time.Hour),
		Levels:             DefaultLevels(),
		DefaultLevel:       defaultLevelID,
	}

	if path := os.Getenv("LEVELS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read levels file: %w", err)
		}
		levels, def, err := ParseLevels(data)
		if err != nil {
			return nil, err
		}
		cfg.Levels = levels
		if def != "" {
			cfg.DefaultLevel = def
		}
	}

	if _, ok := cfg.Levels[cfg.DefaultLevel]; !ok {
		return nil, fmt.Errorf("default level %q is not defined", cfg.DefaultLevel)
	}
	if cfg.LowTimeThreshold >= cfg.MaxTime {
		return nil, fmt.Errorf("LOW_TIME_THRESHOLD (%s) must be below MAX_TIME (%s)", cfg.LowTimeThreshold, cfg.MaxTime)
	}

	return cfg, nil
}

type levelsFile struct {
	Default string           `yaml:"default"`
	Worlds  map[string]Level `yaml:"worlds"`
}

// ParseLevels разбирает YAML с мирами, возвращает уровни и id уровня по умолчанию
func ParseLevels(data []byte) (map[string]Level, string, error) {
	var f levelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parse levels: %w", err)
	}
	if len(f.Worlds) == 0 {
		return nil, "", fmt.Errorf("parse levels: no worlds defined")
	}

	levels := make(map[string]Level, len(f.Worlds))
	for id, l := range f.Worlds {
		l.ID = id
		if l.Name == "" {
			l.Name = "World " + id
		}
		if err := l.Validate(); err != nil {
			return nil, "", err
		}
		levels[id] = l
	}
	if f.Default != "" {
		if _, ok := levels[f.Default]; !ok {
			return nil, "", fmt.Errorf("parse levels: default %q is not defined", f.Default)
		}
	}
	return levels, f.Default, nil
}

func (c *Config) Level(id string) (Level, bool) {
	l, ok := c.Levels[id]
	return l, ok
}

// SortedLevels - уровни по id для стабильной выдачи клиенту
func (c *Config) SortedLevels() []Level {
	out := make([]Level, 0, len(c.Levels))
	for _, l := range c.Levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// принимает "90s", "2m" или просто число секунд
func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

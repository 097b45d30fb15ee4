// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs         []int64 `envconfig:"-"` // заполним вручную
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"credits_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Daily limits ---
	// Час по Москве, в который обнуляются все дневные счётчики
	LimitsResetHour int `envconfig:"LIMITS_RESET_HOUR" default:"0"`
	// Сколько раз в день можно забрать ежедневные кредиты
	DailyGrantMax int `envconfig:"DAILY_GRANT_MAX" default:"1"`
	// Сколько краж в день разрешено одному вору
	StealDailyMax int `envconfig:"STEAL_DAILY_MAX" default:"3"`

	// --- Steal ---
	// Потолок вероятности успешной кражи (при сумме → 0)
	StealMaxChance float64 `envconfig:"STEAL_MAX_CHANCE" default:"0.90"`

	// --- Roulette ---
	RouletteMinBet int64 `envconfig:"ROULETTE_MIN_BET" default:"10"`
	// Пауза «саспенса» перед объявлением результата (чистая подача,
	// никаких блокировок на время паузы)
	RouletteSuspense time.Duration `envconfig:"ROULETTE_SUSPENSE" default:"3s"`

	// --- Critical events ---
	EventSuccessChance float64 `envconfig:"EVENT_SUCCESS_CHANCE" default:"0.10"`
	EventFailureChance float64 `envconfig:"EVENT_FAILURE_CHANCE" default:"0.08"`

	// --- Quiz ---
	// Базовое время на ответ + добавка за каждое слово вопроса
	QuizBaseSeconds    int `envconfig:"QUIZ_BASE_SECONDS" default:"10"`
	QuizSecondsPerWord int `envconfig:"QUIZ_SECONDS_PER_WORD" default:"1"`

	// --- Rate Limiting (анти-спам, не путать с дневными лимитами) ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureRouletteEnabled bool `envconfig:"FEATURE_ROULETTE_ENABLED" default:"true"`
	FeatureStealEnabled    bool `envconfig:"FEATURE_STEAL_ENABLED" default:"true"`
	FeatureQuizEnabled     bool `envconfig:"FEATURE_QUIZ_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.LimitsResetHour < 0 || c.LimitsResetHour > 23 {
		return fmt.Errorf("LIMITS_RESET_HOUR должен быть в диапазоне 0-23")
	}
	if c.StealMaxChance <= 0 || c.StealMaxChance > 1 {
		return fmt.Errorf("STEAL_MAX_CHANCE должен быть в диапазоне (0, 1]")
	}
	if c.EventSuccessChance < 0 || c.EventSuccessChance > 1 ||
		c.EventFailureChance < 0 || c.EventFailureChance > 1 {
		return fmt.Errorf("вероятности критических событий должны быть в [0, 1]")
	}
	if c.RouletteMinBet <= 0 {
		return fmt.Errorf("ROULETTE_MIN_BET должен быть > 0")
	}
	if c.QuizBaseSeconds <= 0 || c.QuizSecondsPerWord < 0 {
		return fmt.Errorf("некорректные QUIZ_BASE_SECONDS/QUIZ_SECONDS_PER_WORD")
	}
	return nil
}

// IsAdmin отвечает, входит ли пользователь в список администраторов.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

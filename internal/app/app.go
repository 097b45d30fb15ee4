// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/bot"
	"fludilka.ru/credits-bot/internal/bot/filters"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/db/postgres"
	"fludilka.ru/credits-bot/internal/features/admin"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/events"
	"fludilka.ru/credits-bot/internal/features/limits"
	"fludilka.ru/credits-bot/internal/features/members"
	"fludilka.ru/credits-bot/internal/features/quiz"
	"fludilka.ru/credits-bot/internal/features/roulette"
	"fludilka.ru/credits-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	memberRepo := members.NewRepository(pool)
	creditsRepo := credits.NewRepository(pool)
	quizRepo := quiz.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 4. Сервисы ===
	limiter := limits.NewLimiter(map[limits.Category]int{
		limits.CategoryDailyGrant: cfg.DailyGrantMax,
		limits.CategorySteal:      cfg.StealDailyMax,
	})
	eventManager := events.NewManager(events.Catalog, cfg.EventSuccessChance, cfg.EventFailureChance)

	memberService := members.NewService(memberRepo)
	creditsService := credits.NewService(creditsRepo, limiter, eventManager, cfg)
	rouletteService := roulette.NewService(creditsService, cfg)
	quizService := quiz.NewService(quizRepo, creditsService, quiz.NewSessionCache(), cfg)
	adminService := admin.NewService(adminRepo, creditsService, cfg)

	// === 5. Обработчики ===
	creditsHandler := credits.NewHandler(creditsService, memberService, botAPI, cfg.RouletteSuspense)
	rouletteHandler := roulette.NewHandler(rouletteService, botAPI, cfg.RouletteSuspense)
	quizHandler := quiz.NewHandler(quizService, botAPI)
	adminHandler := admin.NewHandler(adminService, memberService, botAPI)

	// === 6. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, memberService, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		memberService,
		creditsService,
		creditsHandler,
		rouletteHandler,
		quizHandler,
		adminHandler,
		chatFilter,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, limiter, creditsService, quizService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	// Инициализируем систему миграций
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	// Выполняем миграции по порядку
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Members},
		{2, migration002Credits},
		{3, migration003Quiz},
		{4, migration004Admin},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255),
    is_banned BOOLEAN DEFAULT FALSE,
    joined_at TIMESTAMP DEFAULT NOW(),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(username);
`

var migration002Credits = `
CREATE TABLE IF NOT EXISTS balances (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL REFERENCES members(user_id),
    balance BIGINT DEFAULT 0,
    total_earned BIGINT DEFAULT 0,
    total_spent BIGINT DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    CONSTRAINT balance_non_negative CHECK (balance >= 0)
);
CREATE TABLE IF NOT EXISTS ledger (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES members(user_id),
    target_user_id BIGINT REFERENCES members(user_id),
    delta BIGINT NOT NULL,
    action_kind VARCHAR(50) NOT NULL,
    bet_kind VARCHAR(50),
    success BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ledger_user_id ON ledger(user_id);
CREATE INDEX IF NOT EXISTS idx_ledger_target_user_id ON ledger(target_user_id);
CREATE INDEX IF NOT EXISTS idx_ledger_created_at ON ledger(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ledger_action_kind ON ledger(action_kind);
`

var migration003Quiz = `
CREATE TABLE IF NOT EXISTS quiz_completed (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES members(user_id),
    question_id INTEGER NOT NULL,
    correct BOOLEAN DEFAULT FALSE,
    answered_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, question_id)
);
CREATE INDEX IF NOT EXISTS idx_quiz_completed_user_id ON quiz_completed(user_id);
`

var migration004Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT REFERENCES members(user_id),
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMP DEFAULT NOW(),
    expires_at TIMESTAMP,
    last_activity TIMESTAMP DEFAULT NOW(),
    is_active BOOLEAN DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT,
    attempt_time TIMESTAMP DEFAULT NOW(),
    success BOOLEAN DEFAULT FALSE
);
`

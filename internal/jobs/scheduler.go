// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный сброс лимитов,
// ночная сверка журнала и уборка заброшенных сессий викторины.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/limits"
	"fludilka.ru/credits-bot/internal/features/quiz"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	cfg            *config.Config
	limiter        *limits.Limiter
	creditsService *credits.Service
	quizService    *quiz.Service
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(cfg *config.Config, limiter *limits.Limiter, creditsService *credits.Service, quizService *quiz.Service) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:           c,
		cfg:            cfg,
		limiter:        limiter,
		creditsService: creditsService,
		quizService:    quizService,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ежедневный сброс лимитов (дейли, кражи) в заданный час по Москве
	s.cron.AddFunc(fmt.Sprintf("0 %d * * *", s.cfg.LimitsResetHour), func() {
		log.Info("[CRON] Ежедневный сброс лимитов")
		s.limiter.ResetAll()
	})

	// Ночная сверка счетов с журналом в 04:00
	s.cron.AddFunc("0 4 * * *", func() {
		log.Info("[CRON] Сверка счетов с журналом")
		if _, err := s.creditsService.Reconcile(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка сверки")
		}
	})

	// Уборка заброшенных сессий викторины каждый час
	s.cron.AddFunc("30 * * * *", func() {
		s.quizService.Sweep(time.Hour)
	})

	s.cron.Start()
	log.WithField("reset_hour", s.cfg.LimitsResetHour).Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Sweeper : удаляет просроченные записи и возвращает их количество
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Scheduler : фоновые задачи обслуживания
type Scheduler struct {
	cron *gocron.Scheduler
}

func New() *Scheduler {
	return &Scheduler{cron: gocron.NewScheduler(time.UTC)}
}

// ScheduleSweep : периодическая очистка просроченных отзывов токенов, первый запуск сразу
func (s *Scheduler) ScheduleSweep(interval time.Duration, sweeper Sweeper, timeout time.Duration) error {
	_, err := s.cron.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Msg("[Scheduler] ошибка очистки отозванных токенов")
			return
		}
		if removed > 0 {
			log.Info().Int64("removed", removed).Msg("[Scheduler] очищены просроченные отзывы токенов")
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

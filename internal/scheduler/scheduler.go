// Package scheduler runs the watched coins on a cron schedule and answers
// Telegram commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"CoinCast/internal/model"
	"CoinCast/internal/notifier"
	"CoinCast/internal/selector"
)

// Analyzer runs the analysis pipeline for a coin.
type Analyzer interface {
	Run(ctx context.Context, coinName string) (*model.Analysis, error)
}

// Sender delivers a message to the user.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler manages the watcher cron job.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Notifier Sender
	Coins    []string
	Ctx      context.Context
	Log      zerolog.Logger
}

// NewScheduler creates a new Scheduler watching the given coins.
func NewScheduler(ctx context.Context, analyzer Analyzer, sender Sender, coins []string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: analyzer,
		Notifier: sender,
		Coins:    coins,
		Ctx:      ctx,
		Log:      log,
	}
}

// Register adds the watch task under the given six-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Strs("coins", s.Coins).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes the watch task immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.watchTask()
}

func (s *Scheduler) watchTask() {
	s.Log.Info().Int("coins", len(s.Coins)).Msg("running watch task")
	for _, coin := range s.Coins {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.report(s.Ctx, coin))
	}
}

func (s *Scheduler) report(ctx context.Context, coin string) string {
	a, err := s.Analyzer.Run(ctx, coin)
	if err != nil {
		return notifier.FormatTelegramError(coin, err)
	}
	return notifier.FormatTelegramReport(a)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/coins":
		return "Available coins:\n• " + strings.Join(selector.Names(), "\n• ")
	case "/report":
		if arg == "" {
			arg = selector.Default().Name
		}
		return s.report(ctx, arg)
	case "/watch":
		s.watchTask()
		return ""
	default:
		return "Commands:\n• /coins\n• /report NAME\n• /watch"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}

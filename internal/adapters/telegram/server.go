package telegram

import (
	"AidDesk/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const workerPoolSize = 4

// UpdateHandler consumes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// BotServer runs the bot in polling or webhook mode and feeds updates to a worker pool.
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	cfg     config.TelegramConfig
	log     zerolog.Logger
}

func NewBotServer(api *tgbotapi.BotAPI, handler UpdateHandler, cfg config.TelegramConfig, baseLogger *zerolog.Logger) *BotServer {
	return &BotServer{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start blocks until ctx is cancelled.
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting bot server...")

	switch s.cfg.Mode {
	case "polling":
		return s.startPolling(ctx)
	case "webhook":
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// runWorkers drains jobs until it is closed or ctx is done.
func (s *BotServer) runWorkers(ctx context.Context, jobs <-chan tgbotapi.Update) *sync.WaitGroup {
	var wg sync.WaitGroup
	for w := 1; w <= workerPoolSize; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log := s.log.With().Int("worker_id", id).Logger()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					s.handler.HandleUpdate(log.WithContext(context.Background()), &job)
				}
			}
		}(w)
	}
	return &wg
}

func (s *BotServer) startPolling(ctx context.Context) error {
	if _, err := s.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	jobs := make(chan tgbotapi.Update, 100)
	wg := s.runWorkers(ctx, jobs)
	s.log.Info().Int("workers", workerPoolSize).Msg("Polling update listener started")

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			s.api.StopReceivingUpdates()
			wg.Wait()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update := <-updates:
			jobs <- update
		}
	}
}

func (s *BotServer) startWebhook(ctx context.Context) error {
	path := "/webhook/" + s.api.Token
	wh, err := tgbotapi.NewWebhook(s.cfg.WebhookURL + path)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err := s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}

	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().Str("error_message", info.LastErrorMessage).Msg("Telegram webhook has a last error")
	}

	// TLS terminates at the reverse proxy.
	mux := http.NewServeMux()
	updates := make(chan tgbotapi.Update, 100)
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		update, err := s.api.HandleUpdate(r)
		if err != nil {
			s.log.Warn().Err(err).Msg("Rejected malformed webhook update")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		select {
		case updates <- *update:
		case <-r.Context().Done():
		}
	})

	listenAddr := "127.0.0.1:" + s.cfg.WebhookPort
	httpServer := &http.Server{Addr: listenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
		}
	}()

	jobs := make(chan tgbotapi.Update, 100)
	wg := s.runWorkers(ctx, jobs)
	s.log.Info().Str("addr", listenAddr).Msg("Webhook update listener started")

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.log.Error().Err(err).Msg("Webhook server shutdown error")
			}
			cancel()
			close(jobs)
			wg.Wait()
			s.log.Info().Msg("Webhook server stopped gracefully")
			return nil
		case update := <-updates:
			jobs <- update
		}
	}
}

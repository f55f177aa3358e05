package bot

import (
	"context"
	"fmt"
	"runtime/debug"

	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

type Handler interface {
	Handle(ctx context.Context, update tgbotapi.Update) error
}

// Processor runs webhook updates in the background after they have been
// acknowledged. Failed updates are logged and never retried.
type Processor struct {
	handler Handler
	workers int
	queue   chan tgbotapi.Update
}

func NewProcessor(handler Handler, workers, queueSize int) *Processor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Processor{
		handler: handler,
		workers: workers,
		queue:   make(chan tgbotapi.Update, queueSize),
	}
}

// Enqueue hands an update to the workers without blocking. It reports false
// when the queue is full and the update was dropped.
func (p *Processor) Enqueue(update tgbotapi.Update) bool {
	select {
	case p.queue <- update:
		return true
	default:
		logger.Logger().Warn("update queue full, dropping update",
			zap.Int("update_id", update.UpdateID))
		return false
	}
}

// Run blocks until ctx is cancelled. Updates still queued at that point are dropped.
func (p *Processor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < p.workers; i++ {
		worker := i
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case update := <-p.queue:
					p.process(ctx, worker, update)
				}
			}
		})
	}

	return g.Wait()
}

func (p *Processor) process(ctx context.Context, worker int, update tgbotapi.Update) {
	log := logger.Logger().With(
		zap.String("trace_id", uuid.New().String()),
		zap.Int("update_id", update.UpdateID),
		zap.Int("worker", worker),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing update",
				zap.String("panic", fmt.Sprint(r)),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	if err := p.handler.Handle(ctx, update); err != nil {
		log.Error("failed to process update", zap.Error(err))
		return
	}
	log.Debug("update processed")
}

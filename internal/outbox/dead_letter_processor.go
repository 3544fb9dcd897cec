package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/internal/repository"
	"github.com/tavola/backoffice/pkg/logger"
	"github.com/tavola/backoffice/pkg/retry"
)

// DeadLetterProcessor periodically retries parked messages with backoff
type DeadLetterProcessor struct {
	dlqRepo         *repository.DeadLetterRepository
	handlers        map[string]MessageHandler
	pollingInterval time.Duration
	batchSize       int
	maxRetries      int
	backoff         retry.BackoffStrategy
	logger          logger.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         bool
	mu              sync.Mutex
}

// DeadLetterProcessorConfig holds the configuration for the DeadLetterProcessor
type DeadLetterProcessorConfig struct {
	PollingInterval time.Duration
	BatchSize       int
	MaxRetries      int
	BackoffStrategy retry.BackoffStrategy
}

// NewDeadLetterProcessor creates a new DeadLetterProcessor
func NewDeadLetterProcessor(
	dlqRepo *repository.DeadLetterRepository,
	logger logger.Logger,
	config *DeadLetterProcessorConfig,
) *DeadLetterProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	backoff := config.BackoffStrategy

	if backoff == nil {
		backoff = retry.NewDefaultExponentialBackoff()
	}

	return &DeadLetterProcessor{
		dlqRepo:         dlqRepo,
		handlers:        make(map[string]MessageHandler),
		pollingInterval: config.PollingInterval,
		batchSize:       config.BatchSize,
		maxRetries:      config.MaxRetries,
		backoff:         backoff,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// RegisterHandler registers a message handler for a specific event type
func (p *DeadLetterProcessor) RegisterHandler(eventType string, handler MessageHandler) {
	p.handlers[eventType] = handler
}

// Start starts the dead letter processor
func (p *DeadLetterProcessor) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		p.processLoop()
	}()

	p.logger.Info("Dead letter processor started",
		"pollingInterval", p.pollingInterval,
		"batchSize", p.batchSize)
}

// Stop stops the dead letter processor
func (p *DeadLetterProcessor) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.cancel()
	p.wg.Wait()
	p.running = false

	p.logger.Info("Dead letter processor stopped")
}

func (p *DeadLetterProcessor) processLoop() {
	ticker := time.NewTicker(p.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.processBatch()
		}
	}
}

func (p *DeadLetterProcessor) processBatch() {
	ctx, cancel := context.WithTimeout(p.ctx, p.pollingInterval)
	defer cancel()

	messages, err := p.dlqRepo.GetPendingMessages(ctx, p.batchSize)

	if err != nil {
		p.logger.Error("Failed to get pending dead letter messages", "error", err)
		return
	}

	if len(messages) == 0 {
		return
	}

	p.logger.Debug("Retrying dead letter messages", "count", len(messages))

	for _, msg := range messages {
		if !p.shouldRetryNow(msg) {
			continue
		}

		if err := p.retryMessage(ctx, msg); err != nil {
			p.logger.Error("Dead letter retry failed",
				"error", err,
				"messageID", msg.ID,
				"eventType", msg.EventType)
		}
	}
}

// shouldRetryNow applies the backoff window to a message based on its
// retry count and last attempt time.
func (p *DeadLetterProcessor) shouldRetryNow(msg *models.DeadLetterMessage) bool {
	if msg.LastRetryAt == nil {
		return true
	}

	wait := p.backoff.NextBackoff(msg.RetryCount)
	return time.Since(*msg.LastRetryAt) >= wait
}

func (p *DeadLetterProcessor) retryMessage(ctx context.Context, msg *models.DeadLetterMessage) error {
	handler, exists := p.handlers[msg.EventType]

	if !exists {
		p.logger.Warn("No handler for dead letter message, discarding",
			"messageID", msg.ID,
			"eventType", msg.EventType)
		return p.dlqRepo.MarkAsDiscarded(ctx, msg.ID, "no handler registered")
	}

	if err := p.dlqRepo.MarkAsRetrying(ctx, msg.ID); err != nil {
		return err
	}
	msg.RetryCount++

	outboxMsg := &models.OutboxMessage{
		ID:            msg.OriginalMessageID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       msg.Payload,
	}

	err := handler.HandleMessage(ctx, outboxMsg)

	if err != nil {
		if msg.RetryCount >= p.maxRetries {
			p.logger.Error("Dead letter message exhausted all retries, discarding",
				"messageID", msg.ID,
				"retryCount", msg.RetryCount)
			return p.dlqRepo.MarkAsDiscarded(ctx, msg.ID, "dead letter retries exhausted")
		}

		return p.dlqRepo.ResetToRetry(ctx, msg.ID)
	}

	p.logger.Info("Dead letter message resolved",
		"messageID", msg.ID,
		"eventType", msg.EventType,
		"retryCount", msg.RetryCount)

	return p.dlqRepo.MarkAsResolved(ctx, msg.ID)
}

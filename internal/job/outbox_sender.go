package job

import (
	"context"
	"log"
	"time"

	"digibank/internal/config"
	"digibank/internal/infrastructure/mq"
	"digibank/internal/model"
	"digibank/internal/repository"

	"gorm.io/gorm"
)

// OutboxSender relays committed ledger events to Kafka. It polls PENDING
// outbox rows in commit order and marks each SENT after a successful publish,
// FAILED after the retry budget is spent.
type OutboxSender struct {
	outboxRepo *repository.OutboxRepository
	producer   *mq.Producer
	maxRetry   int
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, producer *mq.Producer, cfg *config.Config) *OutboxSender {
	maxRetry := cfg.Business.OutboxMaxRetry
	if maxRetry <= 0 {
		maxRetry = 3
	}
	return &OutboxSender{
		outboxRepo: repository.NewOutboxRepository(db),
		producer:   producer,
		maxRetry:   maxRetry,
		stopCh:     make(chan struct{}),
		interval:   5 * time.Second,
		batchSize:  100,
	}
}

func (j *OutboxSender) Start(ctx context.Context) {
	log.Println("[OutboxSender] started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OutboxSender] context cancelled, exiting")
			return
		case <-j.stopCh:
			log.Println("[OutboxSender] stopped")
			return
		case <-ticker.C:
			j.sendPending(ctx)
		}
	}
}

func (j *OutboxSender) Stop() {
	close(j.stopCh)
}

func (j *OutboxSender) sendPending(ctx context.Context) {
	messages, err := j.outboxRepo.GetPendingMessages(ctx, j.batchSize)
	if err != nil {
		log.Printf("[OutboxSender] failed to load pending messages: %v", err)
		return
	}

	for _, msg := range messages {
		if err := j.producer.SendMessage(msg.Topic, msg.MessageKey, msg.Payload); err != nil {
			log.Printf("[OutboxSender] publish failed: key=%s, err=%v", msg.MessageKey, err)
			if msg.RetryCount+1 >= j.maxRetry {
				if err := j.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
					log.Printf("[OutboxSender] failed to mark message failed: id=%d, err=%v", msg.ID, err)
				}
			} else if err := j.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
				log.Printf("[OutboxSender] failed to bump retry count: id=%d, err=%v", msg.ID, err)
			}
			continue
		}

		if err := j.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); err != nil {
			log.Printf("[OutboxSender] failed to mark message sent: id=%d, err=%v", msg.ID, err)
		}
	}
}

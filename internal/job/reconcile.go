package job

import (
	"context"
	"log"
	"time"

	"digibank/internal/config"
	"digibank/internal/infrastructure/lock"
	"digibank/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconcileJob periodically audits the ledger invariant: every account's
// balance must equal the sum of signed amounts of its transaction records.
// A mismatch means a bug in the engine or manual tampering; the job only
// reports, it never corrects. A Redis lock keeps concurrent instances from
// auditing at the same time.
type ReconcileJob struct {
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
	redisClient     *redis.Client
	stopCh          chan struct{}
	interval        time.Duration
	batchSize       int
}

func NewReconcileJob(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ReconcileJob {
	interval := time.Duration(cfg.Business.ReconcileIntervalSecond) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	batchSize := cfg.Business.ReconcileBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ReconcileJob{
		accountRepo:     repository.NewAccountRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		redisClient:     redisClient,
		stopCh:          make(chan struct{}),
		interval:        interval,
		batchSize:       batchSize,
	}
}

func (j *ReconcileJob) Start(ctx context.Context) {
	log.Println("[ReconcileJob] started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[ReconcileJob] context cancelled, exiting")
			return
		case <-j.stopCh:
			log.Println("[ReconcileJob] stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *ReconcileJob) Stop() {
	close(j.stopCh)
}

func (j *ReconcileJob) runOnce(ctx context.Context) {
	reconcileLock := lock.NewReconcileLock(j.redisClient, uuid.NewString())
	acquired, err := reconcileLock.TryLock(ctx)
	if err != nil {
		log.Printf("[ReconcileJob] lock error: %v", err)
		return
	}
	if !acquired {
		// another instance is auditing
		return
	}
	defer reconcileLock.Unlock(ctx)

	checked, mismatched := 0, 0
	for offset := 0; ; offset += j.batchSize {
		accounts, err := j.accountRepo.List(ctx, offset, j.batchSize)
		if err != nil {
			log.Printf("[ReconcileJob] failed to list accounts: %v", err)
			return
		}
		if len(accounts) == 0 {
			break
		}

		for _, account := range accounts {
			records, err := j.transactionRepo.ListByAccount(ctx, account.ID)
			if err != nil {
				log.Printf("[ReconcileJob] failed to load records: accountID=%s, err=%v", account.ID, err)
				continue
			}

			sum := decimal.Zero
			for _, rec := range records {
				sum = sum.Add(rec.SignedAmountFor(account.ID))
			}

			checked++
			if !sum.Equal(account.Balance) {
				mismatched++
				log.Printf("[ReconcileJob] LEDGER MISMATCH: accountID=%s balance=%s ledgerSum=%s records=%d",
					account.ID, account.Balance, sum, len(records))
			}
		}
	}

	if mismatched > 0 {
		log.Printf("[ReconcileJob] audit done: %d accounts checked, %d MISMATCHED", checked, mismatched)
	} else {
		log.Printf("[ReconcileJob] audit done: %d accounts checked, ledger consistent", checked)
	}
}

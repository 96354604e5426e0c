package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agenthub-labs/agenthub/internal/domain"
	"github.com/agenthub-labs/agenthub/internal/feed"
	"github.com/agenthub-labs/agenthub/internal/shared"
	"github.com/agenthub-labs/agenthub/internal/store"
)

// TransactionAmount is the fixed simulated micropayment per chat turn.
const TransactionAmount = "0.004"

const writeTimeout = 5 * time.Second

// TransactionRequest describes one micropayment to record.
type TransactionRequest struct {
	FromAgentName string
	ToAgentName   string
	ToAgentID     string
}

// Recorder writes simulated micropayment transactions off the request
// path. Requests are queued and drained by a single worker goroutine;
// a full queue drops the record (it is cosmetic telemetry, never a
// reason to block or fail a chat turn).
type Recorder struct {
	repo  store.Repository
	hub   *feed.Hub
	queue chan TransactionRequest
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewRecorder creates a recorder and starts its worker goroutine.
// hub may be nil when no activity feed is attached.
func NewRecorder(repo store.Repository, hub *feed.Hub, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 100
	}
	r := &Recorder{
		repo:  repo,
		hub:   hub,
		queue: make(chan TransactionRequest, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// RecordTransaction schedules a micropayment write. It never blocks: when
// the queue is full the record is dropped with a warning.
func (r *Recorder) RecordTransaction(req TransactionRequest) {
	select {
	case r.queue <- req:
	default:
		slog.Warn("transaction queue full, dropping record",
			"from", req.FromAgentName, "to", req.ToAgentName)
	}
}

// Close stops accepting records and drains the queue.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for req := range r.queue {
		r.write(req)
	}
}

func (r *Recorder) write(req TransactionRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	txn := &domain.Transaction{
		ToAgentID:     req.ToAgentID,
		FromAgentName: req.FromAgentName,
		ToAgentName:   req.ToAgentName,
		Amount:        TransactionAmount,
		TxHash:        TruncateTxHash(GenerateTxHash()),
		Status:        domain.StatusConfirmed,
		Layer:         domain.LayerHydra,
	}
	err := r.repo.CreateTransaction(ctx, txn)
	if err != nil && shared.IsSQLiteConflictError(err) {
		// The worker is off the request path, so a single blocking retry
		// on a lock conflict is fine.
		time.Sleep(100 * time.Millisecond)
		err = r.repo.CreateTransaction(ctx, txn)
	}
	if err != nil {
		slog.Error("Failed to record transaction",
			"error", err, "from", req.FromAgentName, "to", req.ToAgentName)
		return
	}

	if r.hub != nil {
		r.hub.Publish(feed.EventTransaction, txn)
	}
}

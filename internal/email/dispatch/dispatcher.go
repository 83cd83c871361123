package dispatch

import (
	"context"
	"log"
	"time"

	emaildomain "sendgate-backend/internal/email/domain"
	"sendgate-backend/internal/email/repository"
	"sendgate-backend/internal/email/usecase"
	"sendgate-backend/pkg/mailer"
)

// Dispatcher drains pending emails in the background: each one is walked
// queued -> sending, handed to the mailer, then marked sent or failed.
// It runs on its own goroutine and relies only on store atomicity for
// serialization with the submission path.
type Dispatcher struct {
	emailRepo    repository.EmailRepository
	emailUsecase usecase.EmailUsecase
	mailer       mailer.Mailer
	interval     time.Duration
	batchSize    int
	// simulateDelivery marks sent emails delivered immediately. Used with
	// the noop mailer, which has no provider to confirm delivery.
	simulateDelivery bool
	stopChan         chan struct{}
}

// NewDispatcher creates a dispatcher polling every interval for up to
// batchSize pending emails.
func NewDispatcher(emailRepo repository.EmailRepository, emailUsecase usecase.EmailUsecase, m mailer.Mailer, interval time.Duration, batchSize int, simulateDelivery bool) *Dispatcher {
	return &Dispatcher{
		emailRepo:        emailRepo,
		emailUsecase:     emailUsecase,
		mailer:           m,
		interval:         interval,
		batchSize:        batchSize,
		simulateDelivery: simulateDelivery,
		stopChan:         make(chan struct{}),
	}
}

// Start begins the dispatch loop.
func (d *Dispatcher) Start() {
	log.Printf("[Dispatcher] Starting email dispatcher (interval: %s)", d.interval)

	go func() {
		// Run immediately on start
		d.DispatchPending(context.Background())

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.DispatchPending(context.Background())
			case <-d.stopChan:
				log.Println("[Dispatcher] Dispatcher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the dispatcher.
func (d *Dispatcher) Stop() {
	close(d.stopChan)
}

// DispatchPending processes one batch of pending emails.
func (d *Dispatcher) DispatchPending(ctx context.Context) {
	emails, err := d.emailRepo.FindByStatus(emaildomain.StatusPending, d.batchSize)
	if err != nil {
		log.Printf("[Dispatcher] Error listing pending emails: %v", err)
		return
	}

	for _, email := range emails {
		d.dispatch(ctx, email)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, email *emaildomain.Email) {
	if ok := d.advance(email.ID, emaildomain.StatusQueued, ""); !ok {
		return
	}
	if ok := d.advance(email.ID, emaildomain.StatusSending, ""); !ok {
		return
	}

	if _, err := d.mailer.Send(ctx, email); err != nil {
		log.Printf("[Dispatcher] Send failed for %s: %v", email.ID, err)
		if rerr := d.emailRepo.IncrementRetry(email.ID); rerr != nil {
			log.Printf("[Dispatcher] Error incrementing retry count for %s: %v", email.ID, rerr)
		}
		d.advance(email.ID, emaildomain.StatusFailed, err.Error())
		return
	}

	if ok := d.advance(email.ID, emaildomain.StatusSent, ""); !ok {
		return
	}
	if d.simulateDelivery {
		d.advance(email.ID, emaildomain.StatusDelivered, "")
	}
}

func (d *Dispatcher) advance(id string, status emaildomain.Status, errorMessage string) bool {
	ok, err := d.emailUsecase.UpdateEmailStatus(id, status, errorMessage)
	if err != nil {
		log.Printf("[Dispatcher] Error updating %s to %s: %v", id, status, err)
		return false
	}
	if !ok {
		log.Printf("[Dispatcher] Email %s disappeared before reaching %s", id, status)
		return false
	}
	return true
}

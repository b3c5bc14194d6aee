package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"koskita/internal/modules/reconcile"
)

// ReconcileJob periodically verifies that settled payments and ledger
// entries agree, and logs any drift for the operators.
type ReconcileJob struct {
	checker *reconcile.Service
}

func NewReconcileJob(checker *reconcile.Service) *ReconcileJob {
	return &ReconcileJob{checker: checker}
}

func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := j.checker.Verify(ctx); err != nil {
		if errors.Is(err, reconcile.ErrDrift) {
			log.Printf("reconcile_sweep status=drift err=%v", err)
			return
		}
		log.Printf("reconcile_sweep status=error err=%v", err)
		return
	}
	log.Printf("reconcile_sweep status=healthy")
}

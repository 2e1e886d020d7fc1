package eventlog

import (
	"context"

	"pubhub/internal/domain"
)

// Auditor writes every in-flight event to the log. Events that already carry
// a log identity were journaled by their producer and are skipped. The
// auditor is subscribed ahead of every other handler, so an audited event is
// being dispatched as it is written and recovery leaves it alone.
type Auditor struct {
	repo Repository
}

func NewAuditor(repo Repository) *Auditor {
	return &Auditor{repo: repo}
}

func (a *Auditor) Topic() string { return ".*" }

func (a *Auditor) Name() string { return "eventlog.auditor" }

func (a *Auditor) Handle(ctx context.Context, e domain.Event) (bool, error) {
	if e.Persisted() {
		return false, nil
	}
	if err := a.repo.Audit(ctx, e); err != nil {
		return false, err
	}
	return true, nil
}

package repository

import (
	"context"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// SubmissionJournalRepository define el puerto de persistencia para la bitácora de envíos (DIP).
// Es solo informativa: el ledger remoto sigue siendo la fuente de verdad.
type SubmissionJournalRepository interface {
	Record(ctx context.Context, rec *entity.SubmissionRecord) error
	GetByID(ctx context.Context, id string) (*entity.SubmissionRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.SubmissionRecord, error)
}

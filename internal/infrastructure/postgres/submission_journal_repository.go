package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/repository"
)

var _ repository.SubmissionJournalRepository = (*SubmissionJournalRepo)(nil)

// journalSchema tabla de la bitácora. Los ítems van como jsonb: la bitácora se
// consulta por lote completo, nunca por ítem.
const journalSchema = `
CREATE TABLE IF NOT EXISTS stock_submissions (
	id                UUID PRIMARY KEY,
	session_id        UUID NOT NULL,
	kind              TEXT NOT NULL,
	from_warehouse_id TEXT,
	to_warehouse_id   TEXT,
	reason            TEXT,
	items             JSONB NOT NULL,
	total_quantity    NUMERIC(18,4) NOT NULL,
	items_processed   INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL,
	error_message     TEXT,
	created_by        TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_submissions_session ON stock_submissions (session_id, created_at);`

// EnsureJournalSchema crea la tabla si no existe.
func EnsureJournalSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("crear esquema de bitácora: %w", err)
	}
	return nil
}

// SubmissionJournalRepo implementación sobre PostgreSQL (usable con pool o tx).
type SubmissionJournalRepo struct {
	q Querier
}

// NewSubmissionJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubmissionJournalRepository(q Querier) *SubmissionJournalRepo {
	return &SubmissionJournalRepo{q: q}
}

const journalColumns = `id, session_id, kind, from_warehouse_id, to_warehouse_id, reason, items,
	total_quantity, items_processed, status, error_message, created_by, created_at`

// Record persiste un lote. Un ID repetido devuelve domain.ErrConflict.
func (r *SubmissionJournalRepo) Record(ctx context.Context, rec *entity.SubmissionRecord) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("serializar ítems: %w", err)
	}
	query := `INSERT INTO stock_submissions (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		rec.ID, rec.SessionID, rec.Kind,
		nullable(rec.FromWarehouseID), nullable(rec.ToWarehouseID), nullable(rec.Reason),
		items, rec.TotalQuantity, rec.ItemsProcessed, rec.Status,
		nullable(rec.ErrorMessage), rec.CreatedBy, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("registrar lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *SubmissionJournalRepo) GetByID(ctx context.Context, id string) (*entity.SubmissionRecord, error) {
	query := `SELECT ` + journalColumns + ` FROM stock_submissions WHERE id = $1`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener lote: %w", err)
	}
	return rec, nil
}

// ListBySession lista los lotes de una sesión en orden de envío.
func (r *SubmissionJournalRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.SubmissionRecord, error) {
	query := `SELECT ` + journalColumns + ` FROM stock_submissions WHERE session_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()

	var list []*entity.SubmissionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("leer lote: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanRecord(row pgx.Row) (*entity.SubmissionRecord, error) {
	var rec entity.SubmissionRecord
	var from, to, reason, errMsg *string
	var items []byte
	err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.Kind, &from, &to, &reason, &items,
		&rec.TotalQuantity, &rec.ItemsProcessed, &rec.Status, &errMsg, &rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, fmt.Errorf("ítems corruptos en lote %s: %w", rec.ID, err)
	}
	rec.FromWarehouseID = deref(from)
	rec.ToWarehouseID = deref(to)
	rec.Reason = deref(reason)
	rec.ErrorMessage = deref(errMsg)
	return &rec, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package repo

import (
	"context"
	"database/sql"

	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

// OutboxRow carries one pending event. Key is the order ID; the publisher
// uses it as the partition key so updates to one order stay ordered.
type OutboxRow struct {
	ID      int64
	Key     string
	Payload []byte
}

type MySQLOutboxRepo struct{ db *sql.DB }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) InsertOrderChanged(ctx context.Context, orderID string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO outbox (channel,order_id,payload,status,retry_count,next_attempt_at,created_at)
VALUES ('orders.changed.v1', ?, ?, 'PENDING', 0, NOW(), NOW())
`, orderID, payload)
	return err
}

// NextBatch returns up to limit pending events, oldest first.
func (r *MySQLOutboxRepo) NextBatch(ctx context.Context, limit int) ([]OutboxRow, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,order_id,payload FROM outbox
WHERE status='PENDING' AND next_attempt_at <= NOW()
ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.Key, &row.Payload); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MySQLOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox SET status='SENT', sent_at=NOW() WHERE id=?`, id)
	return err
}

// MarkFailed backs the event off for a retry on the next drain pass.
func (r *MySQLOutboxRepo) MarkFailed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE outbox SET retry_count=retry_count+1, next_attempt_at=NOW() + INTERVAL 30 SECOND
WHERE id=?`, id)
	return err
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)

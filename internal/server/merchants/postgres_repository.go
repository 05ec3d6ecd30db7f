package merchants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/dbx"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/google/uuid"
)

// PostgresRepository stores profiles in the merchants table and log lines in
// merchant_logs. Log ids are UUIDv7 so their order follows insertion time.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetMerchant(ctx context.Context, owner string) (*merchant.Merchant, error) {
	query :=
		`SELECT name, email_address, phone_number, email_notifications, phone_notifications
		 FROM merchants
		 WHERE owner = $1`

	m := &merchant.Merchant{}
	err := r.db.QueryRowContext(ctx, query, owner).
		Scan(&m.Name, &m.EmailAddress, &m.PhoneNumber, &m.EmailNotifications, &m.PhoneNotifications)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) SaveMerchant(ctx context.Context, owner string, m merchant.Merchant, logLine string, at time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("log id: %w", err)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		upsert :=
			`INSERT INTO merchants (owner, name, email_address, phone_number, email_notifications, phone_notifications, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (owner) DO UPDATE SET
			   name = EXCLUDED.name,
			   email_address = EXCLUDED.email_address,
			   phone_number = EXCLUDED.phone_number,
			   email_notifications = EXCLUDED.email_notifications,
			   phone_notifications = EXCLUDED.phone_notifications,
			   updated_at = EXCLUDED.updated_at`

		if _, err := tx.ExecContext(ctx, upsert, owner, m.Name, m.EmailAddress, m.PhoneNumber,
			m.EmailNotifications, m.PhoneNotifications, at); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		insert :=
			`INSERT INTO merchant_logs (id, owner, line, created_at)
			 VALUES ($1, $2, $3, $4)`

		if _, err := tx.ExecContext(ctx, insert, id.String(), owner, logLine, at); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return nil
	})
}

func (r *PostgresRepository) ListLogs(ctx context.Context, owner string, limit int) ([]string, error) {
	query :=
		`SELECT line FROM (
		   SELECT id, line FROM merchant_logs
		   WHERE owner = $1
		   ORDER BY id DESC
		   LIMIT $2
		 ) recent
		 ORDER BY id ASC`

	// LIMIT NULL is LIMIT ALL
	var limitArg any
	capacity := 0
	if limit > 0 {
		limitArg = limit
		capacity = limit
	}

	rows, err := r.db.QueryContext(ctx, query, owner, limitArg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	logs := make([]string, 0, capacity)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		logs = append(logs, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return logs, nil
}

package merchants

import (
	"context"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/merchant"
)

// Repository persists merchant profiles and their change log, keyed by the
// owner's principal text.
type Repository interface {
	// GetMerchant returns common.ErrNotFound when owner has no profile yet.
	GetMerchant(ctx context.Context, owner string) (*merchant.Merchant, error)

	// SaveMerchant replaces the profile and appends logLine in one step.
	SaveMerchant(ctx context.Context, owner string, m merchant.Merchant, logLine string, at time.Time) error

	// ListLogs returns at most limit of the most recent lines, oldest first.
	// A limit <= 0 returns every line.
	ListLogs(ctx context.Context, owner string, limit int) ([]string, error)
}

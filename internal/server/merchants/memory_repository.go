package merchants

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
)

// MemoryRepository keeps everything in process memory. Each owner's log is
// trimmed to maxLogs lines.
type MemoryRepository struct {
	mu        sync.RWMutex
	maxLogs   int
	merchants map[string]merchant.Merchant
	logs      map[string][]string
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(maxLogs int) *MemoryRepository {
	return &MemoryRepository{
		maxLogs:   maxLogs,
		merchants: make(map[string]merchant.Merchant),
		logs:      make(map[string][]string),
	}
}

func (r *MemoryRepository) GetMerchant(ctx context.Context, owner string) (*merchant.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.merchants[owner]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &m, nil
}

func (r *MemoryRepository) SaveMerchant(ctx context.Context, owner string, m merchant.Merchant, logLine string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.merchants[owner] = m

	logs := append(r.logs[owner], logLine)
	if r.maxLogs > 0 && len(logs) > r.maxLogs {
		logs = append([]string(nil), logs[len(logs)-r.maxLogs:]...)
	}
	r.logs[owner] = logs

	return nil
}

func (r *MemoryRepository) ListLogs(ctx context.Context, owner string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := r.logs[owner]
	if limit > 0 && len(logs) > limit {
		logs = logs[len(logs)-limit:]
	}

	out := make([]string, len(logs))
	copy(out, logs)
	return out, nil
}

package merchants

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_GetMissing(t *testing.T) {
	r := NewMemoryRepository(3)

	_, err := r.GetMerchant(context.Background(), "owner")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_SaveReplacesWholesale(t *testing.T) {
	r := NewMemoryRepository(3)
	ctx := context.Background()

	require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "A", EmailAddress: "a@x", EmailNotifications: true}, "l1", time.Now()))
	require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "B"}, "l2", time.Now()))

	m, err := r.GetMerchant(ctx, "o")
	require.NoError(t, err)
	assert.Equal(t, merchant.Merchant{Name: "B"}, *m)
}

func TestMemoryRepository_LogsAreTrimmedOldestFirst(t *testing.T) {
	r := NewMemoryRepository(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "x"}, fmt.Sprintf("l%d", i), time.Now()))
	}

	logs, err := r.ListLogs(ctx, "o", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"l3", "l4", "l5"}, logs)

	logs, err = r.ListLogs(ctx, "o", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"l4", "l5"}, logs)
}

func TestMemoryRepository_ListReturnsCopy(t *testing.T) {
	r := NewMemoryRepository(0)
	ctx := context.Background()
	require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "x"}, "l1", time.Now()))

	logs, err := r.ListLogs(ctx, "o", 0)
	require.NoError(t, err)
	logs[0] = "mutated"

	again, err := r.ListLogs(ctx, "o", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, again)
}

func TestMemoryRepository_UnknownOwnerHasNoLogs(t *testing.T) {
	logs, err := NewMemoryRepository(3).ListLogs(context.Background(), "nobody", 3)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestMemoryRepository_NonPositiveLimitReturnsAll(t *testing.T) {
	r := NewMemoryRepository(0)
	ctx := context.Background()
	require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "x"}, "l1", time.Now()))
	require.NoError(t, r.SaveMerchant(ctx, "o", merchant.Merchant{Name: "x"}, "l2", time.Now()))

	for _, limit := range []int{0, -1} {
		logs, err := r.ListLogs(ctx, "o", limit)
		require.NoError(t, err)
		assert.Equal(t, []string{"l1", "l2"}, logs)
	}
}

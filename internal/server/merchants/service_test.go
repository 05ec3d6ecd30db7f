package merchants

import (
	"context"
	"crypto/ed25519"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	getErr  error
	saveErr error
	listErr error

	savedOwner string
	savedLine  string
	listLimit  int
}

func (f *fakeRepo) GetMerchant(ctx context.Context, owner string) (*merchant.Merchant, error) {
	return nil, f.getErr
}

func (f *fakeRepo) SaveMerchant(ctx context.Context, owner string, m merchant.Merchant, logLine string, at time.Time) error {
	f.savedOwner = owner
	f.savedLine = logLine
	return f.saveErr
}

func (f *fakeRepo) ListLogs(ctx context.Context, owner string, limit int) ([]string, error) {
	f.listLimit = limit
	return []string{}, f.listErr
}

func testPrincipal(t *testing.T, seed byte) principal.Principal {
	t.Helper()
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	p, err := principal.FromPublicKey(ed25519.NewKeyFromSeed(s).Public().(ed25519.PublicKey))
	require.NoError(t, err)
	return p
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}

func TestService_GetMissingIs404(t *testing.T) {
	svc := NewService(NewMemoryRepository(10), 10)

	resp, err := svc.Get(context.Background(), testPrincipal(t, 1))
	require.NoError(t, err)
	assert.Equal(t, merchant.StatusNotFound, resp.Status)
	assert.Equal(t, NotFoundText, resp.ErrorText)
	assert.Nil(t, resp.Data)
}

func TestService_UpdateThenGet(t *testing.T) {
	svc := NewService(NewMemoryRepository(10), 10)
	svc.now = fixedClock
	ctx := context.Background()
	p := testPrincipal(t, 1)

	m := merchant.Merchant{Name: "Shop", EmailAddress: "a@b.c", PhoneNumber: "1", EmailNotifications: true}

	resp, err := svc.Update(ctx, p, m)
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, m, *resp.Data)

	resp, err = svc.Get(ctx, p)
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, m, *resp.Data)

	logs, err := svc.Logs(ctx, p)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, strings.HasPrefix(logs[0], "2026-10-18T12:00:00Z merchant profile updated"), logs[0])
	assert.Contains(t, logs[0], `name="Shop"`)
}

func TestService_ProfilesArePerPrincipal(t *testing.T) {
	svc := NewService(NewMemoryRepository(10), 10)
	ctx := context.Background()

	_, err := svc.Update(ctx, testPrincipal(t, 1), merchant.Merchant{Name: "One"})
	require.NoError(t, err)

	resp, err := svc.Get(ctx, testPrincipal(t, 2))
	require.NoError(t, err)
	assert.Equal(t, merchant.StatusNotFound, resp.Status)

	logs, err := svc.Logs(ctx, testPrincipal(t, 2))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestService_UpdateRequiresName(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, 10)

	for _, name := range []string{"", "   "} {
		resp, err := svc.Update(context.Background(), testPrincipal(t, 1), merchant.Merchant{Name: name})
		require.NoError(t, err)
		assert.Equal(t, merchant.StatusBadRequest, resp.Status)
		assert.Equal(t, NameRequiredText, resp.ErrorText)
	}
	assert.Empty(t, repo.savedOwner, "nothing must be saved")
}

func TestService_RepositoryErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()
	p := testPrincipal(t, 1)

	_, err := NewService(&fakeRepo{getErr: boom}, 10).Get(ctx, p)
	require.ErrorIs(t, err, boom)

	_, err = NewService(&fakeRepo{saveErr: boom}, 10).Update(ctx, p, merchant.Merchant{Name: "x"})
	require.ErrorIs(t, err, boom)

	_, err = NewService(&fakeRepo{listErr: boom}, 10).Logs(ctx, p)
	require.ErrorIs(t, err, boom)
}

func TestService_LogsUseCap(t *testing.T) {
	repo := &fakeRepo{}
	_, err := NewService(repo, 7).Logs(context.Background(), testPrincipal(t, 1))
	require.NoError(t, err)
	assert.Equal(t, 7, repo.listLimit)
}

func TestService_NotFoundFromRepo(t *testing.T) {
	resp, err := NewService(&fakeRepo{getErr: common.ErrNotFound}, 10).Get(context.Background(), testPrincipal(t, 1))
	require.NoError(t, err)
	assert.Equal(t, merchant.StatusNotFound, resp.Status)
}

// Package merchants implements the development canister's merchant profile
// logic and its storage.
package merchants

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
)

const (
	NotFoundText     = "merchant not found"
	NameRequiredText = "merchant name is required"
)

type Service struct {
	repo   Repository
	logCap int
	now    func() time.Time
}

func NewService(repo Repository, logCap int) *Service {
	return &Service{repo: repo, logCap: logCap, now: time.Now}
}

// Get returns the caller's profile. A missing profile is a 404 envelope,
// not an error.
func (s *Service) Get(ctx context.Context, owner principal.Principal) (*merchant.Response, error) {
	m, err := s.repo.GetMerchant(ctx, owner.String())
	if errors.Is(err, common.ErrNotFound) {
		return merchant.Failure(merchant.StatusNotFound, NotFoundText), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	return merchant.Success(*m), nil
}

// Update replaces the caller's profile wholesale and records the change in
// the transaction log.
func (s *Service) Update(ctx context.Context, owner principal.Principal, m merchant.Merchant) (*merchant.Response, error) {
	if strings.TrimSpace(m.Name) == "" {
		return merchant.Failure(merchant.StatusBadRequest, NameRequiredText), nil
	}

	at := s.now().UTC()
	if err := s.repo.SaveMerchant(ctx, owner.String(), m, logLine(at, m), at); err != nil {
		return nil, fmt.Errorf("save merchant: %w", err)
	}
	return merchant.Success(m), nil
}

// Logs returns the caller's most recent log lines, oldest first.
func (s *Service) Logs(ctx context.Context, owner principal.Principal) ([]string, error) {
	logs, err := s.repo.ListLogs(ctx, owner.String(), s.logCap)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

func logLine(at time.Time, m merchant.Merchant) string {
	return fmt.Sprintf("%s merchant profile updated: name=%q email=%q phone=%q email_notifications=%t phone_notifications=%t",
		at.Format(time.RFC3339), m.Name, m.EmailAddress, m.PhoneNumber, m.EmailNotifications, m.PhoneNotifications)
}

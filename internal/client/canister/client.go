// Package canister is the dashboard's gRPC client for the merchant canister.
package canister

import (
	"context"

	"github.com/dmitrijs2005/merchantdash/internal/merchant"
)

// Client is the RPC surface the dashboard depends on.
type Client interface {
	GetMerchant(ctx context.Context) (*merchant.Response, error)
	UpdateMerchant(ctx context.Context, m merchant.Merchant) (*merchant.Response, error)
	GetLogs(ctx context.Context) ([]string, error)

	// Authorize sets the delegation attached to every subsequent call.
	// An empty token makes calls anonymous.
	Authorize(delegation string)
	Close() error
}

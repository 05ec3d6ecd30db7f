package dashboard

import (
	"context"

	"github.com/dmitrijs2005/merchantdash/internal/client/identity"
)

// Dialogs are the blocking user interactions the dashboard needs.
type Dialogs interface {
	Prompt(ctx context.Context, message string) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
	Alert(ctx context.Context, message string)
}

// Authenticator is the auth client as seen by the dashboard.
type Authenticator interface {
	IsAuthenticated() bool
	Identity() (*identity.Identity, error)
	Login(ctx context.Context) (*identity.Identity, error)
	Logout(ctx context.Context) error
}

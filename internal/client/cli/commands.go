package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/merchantdash/internal/client/dashboard"
	"github.com/dmitrijs2005/merchantdash/internal/client/identity"
)

var _ execIface = (*App)(nil)

// command marks the app busy until the returned func is called.
func (a *App) command() func() {
	a.busy.Store(true)
	return func() { a.busy.Store(false) }
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) Login(ctx context.Context) error {
	defer a.command()()
	return a.page.Click(ctx, dashboard.LoginButton)
}

func (a *App) Logout(ctx context.Context) error {
	defer a.command()()
	return a.page.Click(ctx, dashboard.LogoutButton)
}

func (a *App) WhoAmI(_ context.Context) error {
	id := a.session.Identity()
	if id == nil {
		return identity.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "Principal ID: %s\nDelegation expires: %s\n", id.Principal, id.Expiration.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) Merchant(ctx context.Context) error {
	defer a.command()()
	if !a.isLoggedIn() {
		return identity.ErrNotAuthenticated
	}
	return a.ctrl.FetchMerchantInfo(ctx, a.session)
}

func (a *App) Update(ctx context.Context) error {
	defer a.command()()
	return a.page.Click(ctx, dashboard.UpdateMerchant)
}

// Amount types value into the payment amount field.
func (a *App) Amount(_ context.Context, value string) error {
	visible, err := a.page.IsVisible(dashboard.PaymentAmount)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("%w: %s", dashboard.ErrElementHidden, dashboard.PaymentAmount)
	}
	return a.page.SetValue(dashboard.PaymentAmount, value)
}

func (a *App) QR(ctx context.Context) error {
	defer a.command()()
	return a.page.Click(ctx, dashboard.GenerateQR)
}

func (a *App) Transactions(ctx context.Context) error {
	defer a.command()()
	if !a.isLoggedIn() {
		return identity.ErrNotAuthenticated
	}
	return a.ctrl.RefreshTransactions(ctx, a.session)
}

// Show renders the visible parts of the dashboard.
func (a *App) Show(_ context.Context) error {
	renderPage(a.out, a.page.Snapshot(), func(id string) bool {
		v, _ := a.page.IsVisible(id)
		return v
	}, a.bold)
	return nil
}

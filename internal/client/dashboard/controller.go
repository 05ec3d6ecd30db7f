package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/client/canister"
	"github.com/dmitrijs2005/merchantdash/internal/client/identity"
	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
)

// Login policies applied by Init when no session exists.
const (
	LoginManual = "manual"
	LoginAuto   = "auto"
)

// User-facing messages.
const (
	MsgUpdateSuccess = "Merchant information updated successfully!"
	MsgUpdateFailed  = "Failed to update merchant information. Please try again."
	MsgUpdateError   = "An error occurred while updating merchant information."
	MsgInvalidAmount = "Please enter a valid amount."

	PromptName        = "Enter merchant name:"
	PromptEmail       = "Enter merchant email:"
	PromptPhone       = "Enter merchant phone:"
	ConfirmEmailNotif = "Enable email notifications?"
	ConfirmPhoneNotif = "Enable phone notifications?"
)

var (
	ErrEmptyAmount      = errors.New("empty payment amount")
	ErrUnexpectedStatus = errors.New("unexpected canister status")
)

var panels = []string{MerchantInfo, TransactionMonitor, PaymentProcessor}

type Controller struct {
	page         *Page
	auth         Authenticator
	canister     canister.Client
	dialogs      Dialogs
	logger       logging.Logger
	pollInterval time.Duration
	loginPolicy  string
}

// Config carries the controller's collaborators and settings.
type Config struct {
	Page         *Page
	Auth         Authenticator
	Canister     canister.Client
	Dialogs      Dialogs
	Logger       logging.Logger
	PollInterval time.Duration
	LoginPolicy  string
}

func NewController(c Config) *Controller {
	interval := c.PollInterval
	if interval <= 0 {
		interval = common.DefaultPollInterval * time.Second
	}
	policy := c.LoginPolicy
	if policy == "" {
		policy = LoginManual
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Controller{
		page:         c.Page,
		auth:         c.Auth,
		canister:     c.Canister,
		dialogs:      c.Dialogs,
		logger:       logger.With("module", "dashboard"),
		pollInterval: interval,
		loginPolicy:  policy,
	}
}

// Init binds the login controls and shows the view matching the auth state.
// Without a session the login policy decides whether to log in right away.
func (c *Controller) Init(ctx context.Context, s *Session) error {
	if err := c.page.OnClick(LoginButton, func(ctx context.Context) error { return c.Login(ctx, s) }); err != nil {
		return err
	}
	if err := c.page.OnClick(LogoutButton, func(ctx context.Context) error { return c.Logout(ctx, s) }); err != nil {
		return err
	}

	if c.auth.IsAuthenticated() {
		id, err := c.auth.Identity()
		if err == nil {
			return c.HandleAuthenticated(ctx, s, id)
		}
	}

	if err := c.HandleUnauthenticated(s); err != nil {
		return err
	}

	if c.loginPolicy == LoginAuto {
		return c.Login(ctx, s)
	}
	return nil
}

// Login runs the identity provider flow and switches to the authenticated
// view on success.
func (c *Controller) Login(ctx context.Context, s *Session) error {
	id, err := c.auth.Login(ctx)
	if err != nil {
		c.logger.Error(ctx, "Login failed", "err", err)
		return err
	}
	return c.HandleAuthenticated(ctx, s, id)
}

// Logout ends the session and returns to the unauthenticated view.
func (c *Controller) Logout(ctx context.Context, s *Session) error {
	s.end()
	c.canister.Authorize("")

	err := c.auth.Logout(ctx)
	if err != nil {
		c.logger.Error(ctx, "Logout failed", "err", err)
	}

	if uerr := c.HandleUnauthenticated(s); uerr != nil {
		return errors.Join(err, uerr)
	}
	return err
}

// HandleAuthenticated shows the dashboard for id, binds the panel controls,
// loads the merchant profile once and starts the transaction monitor.
func (c *Controller) HandleAuthenticated(ctx context.Context, s *Session, id *identity.Identity) error {
	sctx, _ := s.begin(ctx, id)
	c.canister.Authorize(id.Delegation)

	if err := c.page.SetText(PrincipalID, "Principal ID: "+id.Principal.String()); err != nil {
		return err
	}
	if err := c.page.SetVisible(LoginButton, false); err != nil {
		return err
	}
	if err := c.page.SetVisible(LogoutButton, true); err != nil {
		return err
	}
	for _, panel := range panels {
		if err := c.page.SetVisible(panel, true); err != nil {
			return err
		}
	}

	if err := c.page.OnClick(UpdateMerchant, func(ctx context.Context) error { return c.UpdateMerchant(ctx, s) }); err != nil {
		return err
	}
	if err := c.page.OnClick(GenerateQR, c.GenerateQRCode); err != nil {
		return err
	}

	_ = c.FetchMerchantInfo(sctx, s)
	s.setMonitor(c.StartTransactionMonitor(sctx, s))

	return nil
}

// HandleUnauthenticated resets the dashboard content and shows only the
// login control.
func (c *Controller) HandleUnauthenticated(s *Session) error {
	if err := c.page.SetText(PrincipalID, ""); err != nil {
		return err
	}
	for _, id := range []string{MerchantDetails, TransactionList, QRCode} {
		if err := c.page.Clear(id); err != nil {
			return err
		}
	}
	if err := c.page.SetVisible(LoginButton, true); err != nil {
		return err
	}
	if err := c.page.SetVisible(LogoutButton, false); err != nil {
		return err
	}
	for _, panel := range panels {
		if err := c.page.SetVisible(panel, false); err != nil {
			return err
		}
	}
	return nil
}

// FetchMerchantInfo loads and renders the merchant profile. Failures are
// logged only.
func (c *Controller) FetchMerchantInfo(ctx context.Context, s *Session) error {
	ctx, gen := s.scope(ctx)

	resp, err := c.canister.GetMerchant(ctx)
	if err != nil {
		c.logger.Error(ctx, "Error fetching merchant info:", "err", err)
		return err
	}
	if !s.current(gen) {
		return nil
	}
	if !resp.OK() {
		c.logger.Error(ctx, "Error fetching merchant info:", "status", resp.Status, "error_text", resp.ErrorText)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.Status)
	}
	return c.DisplayMerchantInfo(*resp.Data)
}

// DisplayMerchantInfo renders m into the merchant details area.
func (c *Controller) DisplayMerchantInfo(m merchant.Merchant) error {
	return c.page.SetParagraphs(MerchantDetails, []string{
		"Name: " + m.Name,
		"Email: " + m.EmailAddress,
		"Phone: " + m.PhoneNumber,
		"Email Notifications: " + merchant.OnOff(m.EmailNotifications),
		"Phone Notifications: " + merchant.OnOff(m.PhoneNotifications),
	})
}

// UpdateMerchant asks for a complete profile and pushes it to the canister.
// The view is re-rendered from the record the canister returns.
func (c *Controller) UpdateMerchant(ctx context.Context, s *Session) error {
	m, err := c.askMerchant(ctx)
	if err != nil {
		return err
	}

	rctx, gen := s.scope(ctx)

	resp, err := c.canister.UpdateMerchant(rctx, m)
	if err != nil {
		c.logger.Error(ctx, "Error updating merchant info:", "err", err)
		c.dialogs.Alert(ctx, MsgUpdateError)
		return err
	}
	if !s.current(gen) {
		return nil
	}

	if !resp.OK() {
		c.logger.Error(ctx, "Error updating merchant info:", "status", resp.Status, "error_text", resp.ErrorText)
		c.dialogs.Alert(ctx, MsgUpdateFailed)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.Status)
	}

	if err := c.DisplayMerchantInfo(*resp.Data); err != nil {
		return err
	}
	c.dialogs.Alert(ctx, MsgUpdateSuccess)
	return nil
}

func (c *Controller) askMerchant(ctx context.Context) (merchant.Merchant, error) {
	var m merchant.Merchant
	var err error

	if m.Name, err = c.dialogs.Prompt(ctx, PromptName); err != nil {
		return m, err
	}
	if m.EmailAddress, err = c.dialogs.Prompt(ctx, PromptEmail); err != nil {
		return m, err
	}
	if m.PhoneNumber, err = c.dialogs.Prompt(ctx, PromptPhone); err != nil {
		return m, err
	}
	if m.EmailNotifications, err = c.dialogs.Confirm(ctx, ConfirmEmailNotif); err != nil {
		return m, err
	}
	if m.PhoneNotifications, err = c.dialogs.Confirm(ctx, ConfirmPhoneNotif); err != nil {
		return m, err
	}
	return m, nil
}

// StartTransactionMonitor polls the transaction log every poll interval
// until the returned monitor is stopped or ctx is done.
func (c *Controller) StartTransactionMonitor(ctx context.Context, s *Session) *Monitor {
	_, gen := s.scope(ctx)
	return startMonitor(ctx, c.pollInterval, func(ctx context.Context) {
		_ = c.pollOnce(ctx, s, gen)
	})
}

// RefreshTransactions fetches the transaction log once, outside the poll.
func (c *Controller) RefreshTransactions(ctx context.Context, s *Session) error {
	ctx, gen := s.scope(ctx)
	return c.pollOnce(ctx, s, gen)
}

func (c *Controller) pollOnce(ctx context.Context, s *Session, gen uint64) error {
	logs, err := c.canister.GetLogs(ctx)
	if err != nil {
		c.logger.Error(ctx, "Error fetching transaction logs:", "err", err)
		return err
	}
	if !s.current(gen) {
		return nil
	}
	return c.DisplayTransactions(logs)
}

// DisplayTransactions replaces the transaction list with one paragraph per
// log entry.
func (c *Controller) DisplayTransactions(logs []string) error {
	return c.page.SetParagraphs(TransactionList, logs)
}

// GenerateQRCode renders the payment placeholder for the entered amount.
func (c *Controller) GenerateQRCode(ctx context.Context) error {
	amount, err := c.page.Value(PaymentAmount)
	if err != nil {
		return err
	}
	if amount == "" {
		c.dialogs.Alert(ctx, MsgInvalidAmount)
		return ErrEmptyAmount
	}
	return c.page.SetParagraphs(QRCode, []string{
		fmt.Sprintf("QR Code for %s ckBTC payment would be generated here.", amount),
	})
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clearvide/pkg/identity"
	"clearvide/pkg/payments"
)

// PaymentGateway is the hosted-checkout provider.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (string, error)
	CreatePortal(ctx context.Context, userID, email, returnURL string) (string, error)
	Price(ctx context.Context, p payments.Plan) (payments.Price, error)
	ParseWebhook(payload []byte, signature string) (payments.CheckoutCompleted, error)
}

// AccountStore reads and updates account records.
type AccountStore interface {
	ListUsers(ctx context.Context, limit int) ([]identity.User, error)
	MergePublicMetadata(ctx context.Context, id string, patch map[string]interface{}) (identity.User, error)
}

type Billing struct {
	gateway  PaymentGateway
	accounts AccountStore
	appURL   string
	log      *zap.Logger
}

func NewBilling(gateway PaymentGateway, accounts AccountStore, appURL string, log *zap.Logger) *Billing {
	if log == nil {
		log = zap.NewNop()
	}
	return &Billing{gateway: gateway, accounts: accounts, appURL: strings.TrimRight(appURL, "/"), log: log}
}

// Checkout returns the hosted checkout URL for plan.
func (b *Billing) Checkout(ctx context.Context, user identity.User, plan string) (string, error) {
	p, err := payments.ParsePlan(plan)
	if err != nil {
		return "", &InputError{Title: "Invalid Plan", Description: err.Error()}
	}
	url, err := b.gateway.CreateCheckout(ctx, payments.CheckoutRequest{
		Plan:      p,
		UserID:    user.ID,
		Email:     user.Email(),
		ReturnURL: b.appURL,
	})
	if err != nil {
		return "", remote("Checkout Failed", err)
	}
	b.log.Info("checkout session created", zap.String("user_id", user.ID), zap.String("plan", string(p)))
	return url, nil
}

// Portal returns the billing-portal URL. The customer is looked up by email.
func (b *Billing) Portal(ctx context.Context, user identity.User) (string, error) {
	email := user.Email()
	if email == "" {
		return "", missingInformation("Your account has no email address.")
	}
	url, err := b.gateway.CreatePortal(ctx, user.ID, email, b.appURL)
	if err != nil {
		return "", remote("Billing Portal Failed", err)
	}
	return url, nil
}

// Prices returns the formatted price of every plan keyed by plan name.
func (b *Billing) Prices(ctx context.Context) (map[payments.Plan]payments.Price, error) {
	out := make(map[payments.Plan]payments.Price, 2)
	for _, p := range []payments.Plan{payments.PlanTemplates, payments.PlanPro} {
		price, err := b.gateway.Price(ctx, p)
		if err != nil {
			return nil, remote("Pricing Unavailable", err)
		}
		out[p] = price
	}
	return out, nil
}

// HandleWebhook verifies a payment event and grants the purchased plan.
// Verified events that are not completed checkouts are accepted and
// ignored.
func (b *Billing) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	done, err := b.gateway.ParseWebhook(payload, signature)
	switch {
	case errors.Is(err, payments.ErrIgnoredEvent):
		return nil
	case err != nil:
		return err
	}
	grants := done.Plan.Grants(done.SubscriptionID)
	if _, err := b.accounts.MergePublicMetadata(ctx, done.UserID, grants); err != nil {
		b.log.Error("grant plan", zap.String("user_id", done.UserID), zap.String("plan", string(done.Plan)), zap.Error(err))
		return remote("Grant Failed", fmt.Errorf("grant %s to %s: %w", done.Plan, done.UserID, err))
	}
	b.log.Info("plan granted",
		zap.String("user_id", done.UserID),
		zap.String("plan", string(done.Plan)),
		zap.String("checkout_session", done.SessionID))
	return nil
}

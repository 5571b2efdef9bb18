package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("payments not configured")
	// ErrIgnoredEvent is returned for verified events the service does not
	// act on.
	ErrIgnoredEvent = errors.New("ignored event")
	ErrMissingUser  = errors.New("checkout session has no user id")
)

type StripeConfig struct {
	SecretKey        string
	WebhookSecret    string
	TemplatesPriceID string
	ProPriceID       string
}

// Stripe creates checkout and billing-portal sessions and verifies webhooks.
type Stripe struct {
	api *client.API
	cfg StripeConfig
	log *zap.Logger
}

func NewStripe(cfg StripeConfig, log *zap.Logger) *Stripe {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stripe{cfg: cfg, log: log}
	if cfg.SecretKey != "" {
		s.api = &client.API{}
		s.api.Init(cfg.SecretKey, nil)
	}
	return s
}

func (s *Stripe) priceID(p Plan) string {
	if p == PlanPro {
		return s.cfg.ProPriceID
	}
	return s.cfg.TemplatesPriceID
}

// CreateCheckout returns the hosted checkout URL. Templates is a one-time
// payment; pro is a subscription.
func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	price := s.priceID(req.Plan)
	if s.api == nil || price == "" {
		return "", ErrNotConfigured
	}
	mode := stripe.CheckoutSessionModePayment
	if req.Plan == PlanPro {
		mode = stripe.CheckoutSessionModeSubscription
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(req.ReturnURL + "?success=true&plan=" + string(req.Plan)),
		CancelURL:         stripe.String(req.ReturnURL + "?canceled=true"),
		ClientReferenceID: stripe.String(req.UserID),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("plan", string(req.Plan))

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	s.log.Info("checkout session created", zap.String("session_id", sess.ID), zap.String("plan", string(req.Plan)), zap.String("user_id", req.UserID))
	return sess.URL, nil
}

// CreatePortal finds the customer by email, creating one when missing, and
// returns a billing portal URL.
func (s *Stripe) CreatePortal(ctx context.Context, userID, email, returnURL string) (string, error) {
	if s.api == nil {
		return "", ErrNotConfigured
	}
	list := &stripe.CustomerListParams{Email: stripe.String(email)}
	list.Limit = stripe.Int64(1)
	list.Context = ctx

	var customerID string
	it := s.api.Customers.List(list)
	if it.Next() {
		customerID = it.Customer().ID
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}
	if customerID == "" {
		params := &stripe.CustomerParams{Email: stripe.String(email)}
		params.Context = ctx
		params.AddMetadata("userId", userID)
		c, err := s.api.Customers.New(params)
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		customerID = c.ID
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	sess, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

func (s *Stripe) Price(ctx context.Context, p Plan) (Price, error) {
	id := s.priceID(p)
	if s.api == nil || id == "" {
		return Price{}, ErrNotConfigured
	}
	params := &stripe.PriceParams{}
	params.Context = ctx
	pr, err := s.api.Prices.Get(id, params)
	if err != nil {
		return Price{}, fmt.Errorf("get price %s: %w", p, err)
	}
	return Price{ID: pr.ID, Amount: FormatAmount(pr.UnitAmount, string(pr.Currency))}, nil
}

// ParseWebhook verifies the signature and extracts a completed checkout.
// Other verified event types return ErrIgnoredEvent.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (CheckoutCompleted, error) {
	if s.cfg.WebhookSecret == "" {
		return CheckoutCompleted{}, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return CheckoutCompleted{}, fmt.Errorf("verify webhook: %w", err)
	}
	return decodeCheckoutCompleted(event)
}

func decodeCheckoutCompleted(event stripe.Event) (CheckoutCompleted, error) {
	if string(event.Type) != "checkout.session.completed" {
		return CheckoutCompleted{}, ErrIgnoredEvent
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return CheckoutCompleted{}, fmt.Errorf("decode checkout session: %w", err)
	}
	out := CheckoutCompleted{SessionID: sess.ID, UserID: sess.Metadata["userId"]}
	if out.UserID == "" {
		out.UserID = sess.ClientReferenceID
	}
	if out.UserID == "" {
		return CheckoutCompleted{}, ErrMissingUser
	}
	plan, err := ParsePlan(sess.Metadata["plan"])
	if err != nil {
		// Sessions created before plans existed granted everything.
		plan = PlanPro
	}
	out.Plan = plan
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

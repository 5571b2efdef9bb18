package payments

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Plan is a purchasable product.
type Plan string

const (
	// PlanTemplates is a one-time purchase that removes the watermark.
	PlanTemplates Plan = "templates"
	// PlanPro is a recurring subscription unlocking AI features.
	PlanPro Plan = "pro"
)

func ParsePlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanTemplates, PlanPro:
		return p, nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// Grants returns the public metadata a completed purchase of p merges into
// the account record.
func (p Plan) Grants(subscriptionID string) map[string]interface{} {
	switch p {
	case PlanTemplates:
		return map[string]interface{}{"hasPurchasedTemplates": true}
	case PlanPro:
		m := map[string]interface{}{"isPro": true, "hasPurchasedTemplates": true}
		if subscriptionID != "" {
			m["stripeSubscriptionId"] = subscriptionID
		}
		return m
	}
	return nil
}

type CheckoutRequest struct {
	Plan      Plan
	UserID    string
	Email     string
	ReturnURL string
}

type Price struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

// CheckoutCompleted is the part of a checkout.session.completed event the
// service acts on.
type CheckoutCompleted struct {
	SessionID      string
	UserID         string
	Plan           Plan
	SubscriptionID string
}

// FormatAmount renders a minor-unit amount in US English, e.g. "$19.99".
func FormatAmount(unitAmount int64, isoCode string) string {
	unit, err := currency.ParseISO(strings.ToUpper(isoCode))
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(unitAmount)/100, strings.ToUpper(isoCode))
	}
	scale, _ := currency.Standard.Rounding(unit)
	amount := float64(unitAmount) / math.Pow10(scale)

	p := message.NewPrinter(language.AmericanEnglish)
	out := p.Sprint(currency.NarrowSymbol(unit.Amount(amount)))
	if sym, num, ok := strings.Cut(out, " "); ok && utf8.RuneCountInString(sym) == 1 {
		out = sym + num
	}
	return out
}

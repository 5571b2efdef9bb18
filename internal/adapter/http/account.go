package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clearvide/internal/usecase"
	"clearvide/pkg/payments"
)

// Me returns the caller's account flags.
func (h *Handler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	flags := u.Entitlements()
	return c.JSON(fiber.Map{
		"id":                    u.ID,
		"email":                 u.Email(),
		"isPro":                 flags.IsPro,
		"hasPurchasedTemplates": flags.HasPurchasedTemplates,
	})
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid checkout request")
	}
	url, err := h.billing.Checkout(c.UserContext(), currentUser(c), req.Plan)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

func (h *Handler) Portal(c *fiber.Ctx) error {
	url, err := h.billing.Portal(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

func (h *Handler) Prices(c *fiber.Ctx) error {
	prices, err := h.billing.Prices(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prices)
}

// Webhook acknowledges verified events. A payload that fails verification
// is a 400. A plan that could not be granted is a 500 so the provider
// redelivers the event.
func (h *Handler) Webhook(c *fiber.Ctx) error {
	err := h.billing.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"received": true})
	case errors.Is(err, payments.ErrNotConfigured):
		return respondError(c, err)
	case errors.Is(err, payments.ErrMissingUser):
		h.log.Warn("checkout without user", zap.Error(err))
		return c.JSON(fiber.Map{"received": true})
	case errors.As(err, new(*usecase.RemoteError)):
		h.log.Error("webhook grant failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "grant failed"})
	}
	h.log.Warn("webhook rejected", zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "webhook handler failed"})
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		IsPro                 *bool `json:"isPro"`
		HasPurchasedTemplates *bool `json:"hasPurchasedTemplates"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid entitlements")
	}
	u, err := h.admin.SetEntitlements(c.UserContext(), currentUser(c), c.Params("userId"), req.IsPro, req.HasPurchasedTemplates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clearvide/internal/usecase"
	"clearvide/pkg/identity"
	"clearvide/pkg/payments"
)

type notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func noticeJSON(c *fiber.Ctx, status int, title, description string) error {
	return c.Status(status).JSON(fiber.Map{"notice": notice{Title: title, Description: description}})
}

// respondError maps usecase errors to a status and a {notice} body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		gateErr   *usecase.GateError
		inputErr  *usecase.InputError
		remoteErr *usecase.RemoteError
	)
	switch {
	case errors.As(err, &gateErr):
		status := fiber.StatusForbidden
		if gateErr.LoginRequired {
			status = fiber.StatusUnauthorized
		}
		return noticeJSON(c, status, gateErr.Title, gateErr.Description)
	case errors.As(err, &inputErr):
		return noticeJSON(c, fiber.StatusUnprocessableEntity, inputErr.Title, inputErr.Description)
	case errors.Is(err, usecase.ErrTaskPending):
		return noticeJSON(c, fiber.StatusConflict, "Please Wait", "This action is already in progress.")
	case errors.Is(err, identity.ErrUnauthenticated):
		return noticeJSON(c, fiber.StatusUnauthorized, "Login Required", "Please sign in to continue.")
	case errors.Is(err, usecase.ErrForbidden):
		return noticeJSON(c, fiber.StatusForbidden, "Forbidden", "Admin access required.")
	case errors.Is(err, payments.ErrNotConfigured), errors.Is(err, identity.ErrNotConfigured):
		return noticeJSON(c, fiber.StatusServiceUnavailable, "Unavailable", "This feature is not configured.")
	case errors.As(err, &remoteErr):
		return noticeJSON(c, fiber.StatusBadGateway, remoteErr.Title, "Something went wrong. Please try again.")
	}
	return noticeJSON(c, fiber.StatusInternalServerError, "Error", "Unexpected error.")
}

func badRequest(c *fiber.Ctx, description string) error {
	return noticeJSON(c, fiber.StatusBadRequest, "Invalid Request", description)
}

package http

import (
	"context"

	"go.uber.org/zap"

	"clearvide/internal/usecase"
	"clearvide/pkg/identity"
)

// Authenticator resolves a bearer credential to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.User, error)
}

// Handler serves the resume and account API.
type Handler struct {
	registry     *usecase.Registry
	assistant    *usecase.Assistant
	exporter     *usecase.Exporter
	billing      *usecase.Billing
	admin        *usecase.Admin
	auth         Authenticator
	cookieSecure bool
	log          *zap.Logger
}

type Deps struct {
	Registry     *usecase.Registry
	Assistant    *usecase.Assistant
	Exporter     *usecase.Exporter
	Billing      *usecase.Billing
	Admin        *usecase.Admin
	Auth         Authenticator
	CookieSecure bool
	Log          *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		registry:     d.Registry,
		assistant:    d.Assistant,
		exporter:     d.Exporter,
		billing:      d.Billing,
		admin:        d.Admin,
		auth:         d.Auth,
		cookieSecure: d.CookieSecure,
		log:          log.With(zap.String("component", "http")),
	}
}

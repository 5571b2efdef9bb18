package usecase

import (
	"context"
	"errors"
	"fmt"

	"clearvide/pkg/identity"
)

var ErrForbidden = errors.New("admin access required")

const adminListLimit = 100

type UserSummary struct {
	ID                    string `json:"id"`
	Email                 string `json:"email"`
	Name                  string `json:"name"`
	IsPro                 bool   `json:"isPro"`
	HasPurchasedTemplates bool   `json:"hasPurchasedTemplates"`
	CreatedAt             int64  `json:"createdAt"`
}

func summarize(u identity.User) UserSummary {
	flags := u.Entitlements()
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return UserSummary{
		ID:                    u.ID,
		Email:                 u.Email(),
		Name:                  name,
		IsPro:                 flags.IsPro,
		HasPurchasedTemplates: flags.HasPurchasedTemplates,
		CreatedAt:             u.CreatedAt,
	}
}

// Admin manages account entitlements. Callers are admins when their email
// passes isAdmin.
type Admin struct {
	accounts AccountStore
	isAdmin  func(email string) bool
}

func NewAdmin(accounts AccountStore, isAdmin func(string) bool) *Admin {
	return &Admin{accounts: accounts, isAdmin: isAdmin}
}

func (a *Admin) authorize(caller identity.User) error {
	if a.isAdmin == nil || !a.isAdmin(caller.Email()) {
		return ErrForbidden
	}
	return nil
}

// ListUsers returns the newest accounts.
func (a *Admin) ListUsers(ctx context.Context, caller identity.User) ([]UserSummary, error) {
	if err := a.authorize(caller); err != nil {
		return nil, err
	}
	users, err := a.accounts.ListUsers(ctx, adminListLimit)
	if err != nil {
		return nil, remote("Could Not Load Users", err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	return out, nil
}

// SetEntitlements overwrites both flags; a nil flag is written as false.
func (a *Admin) SetEntitlements(ctx context.Context, caller identity.User, userID string, isPro, hasTemplates *bool) (UserSummary, error) {
	if err := a.authorize(caller); err != nil {
		return UserSummary{}, err
	}
	if userID == "" {
		return UserSummary{}, missingInformation("A user id is required.")
	}
	u, err := a.accounts.MergePublicMetadata(ctx, userID, map[string]interface{}{
		"isPro":                 isPro != nil && *isPro,
		"hasPurchasedTemplates": hasTemplates != nil && *hasTemplates,
	})
	if err != nil {
		return UserSummary{}, remote("Update Failed", fmt.Errorf("set entitlements for %s: %w", userID, err))
	}
	return summarize(u), nil
}

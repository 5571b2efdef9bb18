package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearvide/pkg/identity"
)

func isAdmin(email string) bool { return strings.EqualFold(email, "boss@example.com") }

func TestAdminRequiresAdminEmail(t *testing.T) {
	accounts := &fakeAccounts{}
	a := NewAdmin(accounts, isAdmin)

	_, err := a.ListUsers(context.Background(), userWithEmail("u1", "ada@example.com"))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = a.SetEntitlements(context.Background(), identity.User{ID: "u1"}, "u2", nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, accounts.patched)
}

func TestAdminListUsers(t *testing.T) {
	u := userWithEmail("u2", "ada@example.com")
	u.FirstName, u.LastName = "Ada", "Lovelace"
	u.PublicMetadata = map[string]interface{}{"isPro": true, "hasPurchasedTemplates": "true"}
	accounts := &fakeAccounts{users: []identity.User{u}}
	a := NewAdmin(accounts, isAdmin)

	users, err := a.ListUsers(context.Background(), userWithEmail("u1", "Boss@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, 100, accounts.limit)
	require.Len(t, users, 1)
	assert.Equal(t, UserSummary{ID: "u2", Email: "ada@example.com", Name: "Ada Lovelace", IsPro: true}, users[0])
}

func TestAdminSetEntitlementsDefaultsMissingToFalse(t *testing.T) {
	accounts := &fakeAccounts{}
	a := NewAdmin(accounts, isAdmin)
	yes := true

	got, err := a.SetEntitlements(context.Background(), userWithEmail("u1", "boss@example.com"), "u2", &yes, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"isPro": true, "hasPurchasedTemplates": false}, accounts.patched["u2"])
	assert.True(t, got.IsPro)
	assert.False(t, got.HasPurchasedTemplates)
}

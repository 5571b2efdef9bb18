package identity

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"clearvide/internal/model"
)

var (
	// ErrUnauthenticated covers both a missing credential and one the
	// provider rejects. Callers treat them the same way.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotConfigured   = errors.New("identity provider not configured")
	ErrUserNotFound    = errors.New("user not found")
)

type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// User is the subset of the provider's user record the service reads.
type User struct {
	ID                    string                 `json:"id"`
	FirstName             string                 `json:"first_name"`
	LastName              string                 `json:"last_name"`
	ImageURL              string                 `json:"image_url"`
	PrimaryEmailAddressID string                 `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress         `json:"email_addresses"`
	PublicMetadata        map[string]interface{} `json:"public_metadata"`
	CreatedAt             int64                  `json:"created_at"`
}

// Email returns the primary address, or the first one listed.
func (u User) Email() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// Entitlements reads the flags from public metadata. Only a literal true
// grants a flag.
func (u User) Entitlements() model.Entitlements {
	return model.Entitlements{
		IsPro:                 u.PublicMetadata["isPro"] == true,
		HasPurchasedTemplates: u.PublicMetadata["hasPurchasedTemplates"] == true,
	}
}

// Client talks to a Clerk-compatible backend API and verifies RS256 session
// tokens locally.
type Client struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
	Log       *zap.Logger
	verifyKey *rsa.PublicKey
}

// NewClient parses jwtKeyPEM when set. Without it every token is rejected.
func NewClient(baseURL, secretKey, jwtKeyPEM string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: timeout},
		Log:       log,
	}
	if jwtKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse jwt public key: %w", err)
		}
		c.verifyKey = key
	}
	return c, nil
}

// Verify checks the token signature and expiry and returns the subject.
func (c *Client) Verify(token string) (string, error) {
	if token == "" || c.verifyKey == nil {
		return "", ErrUnauthenticated
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.verifyKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired())
	if err != nil {
		c.Log.Debug("session token rejected", zap.Error(err))
		return "", ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}

// Authenticate verifies token and loads its user. A deleted user is
// reported as unauthenticated.
func (c *Client) Authenticate(ctx context.Context, token string) (User, error) {
	id, err := c.Verify(token)
	if err != nil {
		return User{}, err
	}
	u, err := c.GetUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrUnauthenticated
	}
	return u, err
}

// Entitlements resolves the flags for the bearer of token.
func (c *Client) Entitlements(ctx context.Context, token string) (model.Entitlements, error) {
	u, err := c.Authenticate(ctx, token)
	if err != nil {
		return model.Entitlements{}, err
	}
	return u.Entitlements(), nil
}

func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, &u)
	return u, err
}

// ListUsers returns up to limit users, newest first.
func (c *Client) ListUsers(ctx context.Context, limit int) ([]User, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order_by", "-created_at")
	var users []User
	if err := c.do(ctx, http.MethodGet, "/v1/users?"+q.Encode(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MergePublicMetadata deep-merges patch into the user's public metadata;
// keys not in patch are left as they are.
func (c *Client) MergePublicMetadata(ctx context.Context, id string, patch map[string]interface{}) (User, error) {
	var u User
	body := map[string]interface{}{"public_metadata": patch}
	err := c.do(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(id)+"/metadata", body, &u)
	return u, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.SecretKey == "" || c.BaseURL == "" {
		return ErrNotConfigured
	}
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("identity %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rb, out); err != nil {
		return fmt.Errorf("decode identity response: %w", err)
	}
	return nil
}

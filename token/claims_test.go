package token_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/stretchr/testify/require"
)

// structuralToken decodes but carries a meaningless signature.
const structuralToken = "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ4In0.c2ln"

func TestDisplayName(t *testing.T) {
	testCases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{name: "name wins", raw: map[string]any{"name": "Ada", "preferred_username": "ada@x", "upn": "ada@upn", "sub": "s"}, want: "Ada"},
		{name: "preferred_username", raw: map[string]any{"preferred_username": "ada@x", "upn": "ada@upn", "sub": "s"}, want: "ada@x"},
		{name: "upn", raw: map[string]any{"upn": "ada@upn", "sub": "s"}, want: "ada@upn"},
		{name: "sub", raw: map[string]any{"sub": "s"}, want: "s"},
		{name: "blank name skipped", raw: map[string]any{"name": "  ", "sub": "s"}, want: "s"},
		{name: "non-string skipped", raw: map[string]any{"name": 42, "sub": "s"}, want: "s"},
		{name: "nothing", raw: map[string]any{}, want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, token.DisplayName(tc.raw))
		})
	}
}

func TestEmail(t *testing.T) {
	require.Equal(t, "a@x", token.Email(map[string]any{"email": "a@x", "preferred_username": "p@x"}))
	require.Equal(t, "p@x", token.Email(map[string]any{"preferred_username": "p@x"}))
	require.Equal(t, "", token.Email(map[string]any{"sub": "s"}))
}

func TestValidationError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&token.ValidationError{Kind: token.KindExpired, Err: cause})

	require.ErrorIs(t, err, token.ErrExpired)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, token.ErrMalformed)
	require.Equal(t, "token expired: boom", err.Error())
	require.Equal(t, "token_expired", token.KindExpired.String())

	kind, ok := token.KindOf(err)
	require.True(t, ok)
	require.Equal(t, token.KindExpired, kind)

	_, ok = token.KindOf(cause)
	require.False(t, ok)
}

func TestExpectations_AcceptsAudience(t *testing.T) {
	e := token.Expectations{ClientID: "client", ExtraAudiences: []string{"graph"}}
	require.True(t, e.AcceptsAudience("client"))
	require.True(t, e.AcceptsAudience("graph"))
	require.False(t, e.AcceptsAudience("other"))
	require.False(t, e.AcceptsAudience(""))
}

func TestFixedClaimsValidator(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := token.NewFixedClaimsValidator(
		token.Expectations{Issuer: testIssuer, ClientID: testClientID},
		token.WithFixedClock(func() time.Time { return now }),
	)

	t.Run("structurally valid token", func(t *testing.T) {
		claims, err := v.Validate(context.Background(), structuralToken)
		require.NoError(t, err)
		require.Equal(t, "dev-user", claims.Subject)
		require.Equal(t, "Development User", claims.DisplayName)
		require.Equal(t, testIssuer, claims.Issuer)
		require.Equal(t, []string{testClientID}, claims.Audience)
		require.True(t, now.Add(time.Hour).Equal(claims.ExpiresAt))
	})

	t.Run("structure is still checked", func(t *testing.T) {
		_, err := v.Validate(context.Background(), "not-a-token")
		require.ErrorIs(t, err, token.ErrMalformed)
	})

	t.Run("custom identity", func(t *testing.T) {
		custom := token.NewFixedClaimsValidator(token.Expectations{},
			token.WithFixedClaims(map[string]any{"sub": "s-1", "upn": "u@x"}))
		claims, err := custom.Validate(context.Background(), structuralToken)
		require.NoError(t, err)
		require.Equal(t, "s-1", claims.Subject)
		require.Equal(t, "u@x", claims.DisplayName)
	})
}

func TestNewClaims(t *testing.T) {
	claims := token.NewClaims(jwt.MapClaims{
		"sub":   "user-1",
		"name":  "Ada Lovelace",
		"iss":   "https://issuer.example.com",
		"aud":   []any{"client-123", "api://other"},
		"roles": []any{"Reader", "Writer"},
		"exp":   float64(1700000000),
	})
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "Ada Lovelace", claims.DisplayName)
	require.Equal(t, []string{"client-123", "api://other"}, claims.Audience)
	require.Equal(t, []string{"Reader", "Writer"}, claims.Roles)
	require.Equal(t, int64(1700000000), claims.ExpiresAt.Unix())
	require.True(t, claims.IssuedAt.IsZero())
}

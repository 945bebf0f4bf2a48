package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifehub/internal/infrastructure/supabase"
)

func TestProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/verify":
			_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_at":1700000000,
				"user":{"id":"u1","email":"a@b.com","created_at":"2024-01-01T10:00:00Z","user_metadata":{"name":"Ann"}}}`))
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.com","created_at":"2024-01-01T10:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client, err := supabase.New(srv.URL, "anon", supabase.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	p := NewProvider(client)
	ctx := context.Background()

	u, tokens, err := p.VerifyOTP(ctx, "a@b.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), u.CreatedAt.UTC())
	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
	assert.Equal(t, int64(1700000000), tokens.ExpiresAt)

	u, err = p.GetUser(ctx, "at")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)

	assert.NoError(t, p.SendOTP(ctx, "a@b.com"))
	assert.NoError(t, p.SignOut(ctx, "at"))
}

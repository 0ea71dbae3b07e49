//go:build unit

package sessiontoken_test

import (
	"strings"
	"testing"
	"time"

	"booking-engine/internal/pkg/sessiontoken"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := sessiontoken.NewService("test-secret", time.Hour)

	t.Run("issued token round-trips", func(t *testing.T) {
		t.Parallel()
		sessionID, token, err := svc.Issue()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sessionID, "anon:"))
		assert.NotEmpty(t, token)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, sessionID, claims.SessionID)
	})

	t.Run("two issues mint distinct sessions", func(t *testing.T) {
		t.Parallel()
		first, _, err := svc.Issue()
		require.NoError(t, err)
		second, _, err := svc.Issue()
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("token for a known session keeps its id", func(t *testing.T) {
		t.Parallel()
		token, err := svc.IssueFor("anon:fixed-session")
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "anon:fixed-session", claims.SessionID)
	})
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	svc := sessiontoken.NewService("test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Validate("not-a-jwt")
		assert.ErrorIs(t, err, sessiontoken.ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		t.Parallel()
		other := sessiontoken.NewService("different-secret", time.Hour)
		_, token, err := other.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, sessiontoken.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		shortLived := sessiontoken.NewService("test-secret", -time.Minute)
		_, token, err := shortLived.Issue()
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, sessiontoken.ErrExpiredToken)
	})

	t.Run("empty session id is rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.IssueFor("")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, sessiontoken.ErrInvalidToken)
	})
}

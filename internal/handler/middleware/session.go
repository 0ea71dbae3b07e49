package middleware

import (
	"log/slog"
	"net/http"

	"booking-engine/internal/pkg/sessiontoken"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the signed anonymous checkout session token. Guests
// get a session minted on first contact; the same token must accompany every
// later lock and booking call so holds stay bound to one checkout.
const SessionHeader = "X-Checkout-Session"

const ctxSessionIDKey = "session_id"

type SessionMiddleware struct {
	tokens *sessiontoken.Service
}

func NewSessionMiddleware(tokens *sessiontoken.Service) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// EnsureSession validates the incoming session token, minting a fresh one
// when the header is absent. The (possibly new) token is echoed on the
// response so clients can persist it.
func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(SessionHeader); token != "" {
			claims, err := m.tokens.Validate(token)
			if err == nil {
				c.Set(ctxSessionIDKey, claims.SessionID)
				c.Header(SessionHeader, token)
				c.Next()
				return
			}
			slog.Debug("session token rejected, minting new session", "error", err.Error())
		}

		sessionID, token, err := m.tokens.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}
		c.Set(ctxSessionIDKey, sessionID)
		c.Header(SessionHeader, token)
		c.Next()
	}
}

// RequireSession aborts when no valid session token accompanies the request.
// Lock release and booking creation need the original session, so a minted
// replacement would be useless anyway.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Checkout session token required",
			})
			c.Abort()
			return
		}
		claims, err := m.tokens.Validate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session token",
			})
			c.Abort()
			return
		}
		c.Set(ctxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get(ctxSessionIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "coldreach_session"
	sessionIssuer = "coldreach"

	// ContextSessionID is the gin context key holding the session id.
	ContextSessionID = "session_id"
)

// SessionID returns the id set by Session, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

// Session keeps the browser session id in an HS256 signed cookie. A missing,
// expired or tampered cookie starts a new session.
func Session(secret string, ttl time.Duration) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		id := ""
		if raw, err := c.Cookie(SessionCookie); err == nil && raw != "" {
			id = parseSessionToken(raw, key)
		}

		// refresh the cookie on every request so active sessions slide forward
		if id == "" {
			id = uuid.NewString()
		}
		tok, err := signSessionToken(id, key, ttl)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL",
				"message": "failed to sign session",
			})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, tok, int(ttl.Seconds()), "/", "", false, true)

		c.Set(ContextSessionID, id)
		c.Next()
	}
}

func signSessionToken(id string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseSessionToken(raw string, key []byte) string {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
	)
	if err != nil || tok == nil || !tok.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}

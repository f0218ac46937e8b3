package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
)

const (
	MsgTokenRequired = "A token is required for authentication"
	MsgTokenInvalid  = "Invalid Token"
	MsgTokenExpired  = "Token expired"
)

// TokenVerifier is satisfied by helpers.JWTManager.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// bearerToken reads "Authorization: Bearer <t>", falling back to the x-access-token header.
func bearerToken(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader("x-access-token"))
}

// Auth verifies the bearer token statelessly.
// It sets userID and userEmail in the Gin context on success.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, MsgTokenRequired, nil)
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			msg := MsgTokenInvalid
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = MsgTokenExpired
			}
			response.Abort(c, http.StatusUnauthorized, msg, nil)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

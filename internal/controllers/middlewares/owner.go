package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/linkshort/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	OwnerIDKey          = "ownerID"
	ownerIssuedKey      = "ownerIssued"
	OwnerCookieName     = "owner"
	OwnerJWTExpireAfter = 30 * 24 * time.Hour
)

// OwnerMiddleware определяет владельца запроса. Токен берется из заголовка
// Authorization: Bearer, затем из cookie. Если валидного токена нет, выпускается
// новый владелец и токен записывается в cookie.
func OwnerMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ownerID, ok := ownerFromRequest(c, jwtSecret); ok {
			c.Set(OwnerIDKey, ownerID)
			c.Next()
			return
		}

		ownerID := uuid.NewString()
		tokenString, tokenErr := tokens.GenerateOwnerJWT(ownerID, OwnerJWTExpireAfter, jwtSecret)
		if tokenErr != nil {
			_ = c.Error(fmt.Errorf("owner middleware: %w", tokenErr))
			c.Next()
			return
		}
		c.SetCookie(
			OwnerCookieName,
			tokenString,
			int(OwnerJWTExpireAfter.Seconds()),
			"/",
			"",
			false,
			true,
		)
		c.Set(OwnerIDKey, ownerID)
		c.Set(ownerIssuedKey, true)
		c.Next()
	}
}

// RequireOwner пропускает только запросы, пришедшие с валидным токеном владельца.
// Должен стоять после OwnerMiddleware.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, ok := c.Get(OwnerIDKey)
		if !ok || c.GetBool(ownerIssuedKey) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// OwnerID возвращает владельца, определенного OwnerMiddleware.
func OwnerID(c *gin.Context) (string, bool) {
	ownerID := c.GetString(OwnerIDKey)
	return ownerID, ownerID != ""
}

func ownerFromRequest(c *gin.Context, jwtSecret []byte) (string, bool) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		tokenString, found := strings.CutPrefix(auth, "Bearer ")
		if found {
			ownerID, err := tokens.ParseOwnerJWT(strings.TrimSpace(tokenString), jwtSecret)
			if err == nil {
				return ownerID, true
			}
			_ = c.Error(fmt.Errorf("owner middleware: bearer: %w", err))
		}
	}

	cookie, err := c.Request.Cookie(OwnerCookieName)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			_ = c.Error(fmt.Errorf("owner middleware: %w", err))
		}
		return "", false
	}
	ownerID, err := tokens.ParseOwnerJWT(cookie.Value, jwtSecret)
	if err != nil {
		_ = c.Error(fmt.Errorf("owner middleware: cookie: %w", err))
		return "", false
	}
	return ownerID, true
}

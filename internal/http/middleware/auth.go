package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
)

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret string) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, secret: []byte(jwtSecret)}
}

// OptionalAuth attaches request data when a token is present. A present
// but invalid token is still rejected.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, tokenString string) bool {
	userID, err := am.ParseToken(tokenString)
	if err != nil {
		am.log.Debug("rejecting bearer token", "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": err.Error(), "code": "unauthorized"},
		})
		return false
	}
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
		UserID: userID,
		Token:  tokenString,
	})
	c.Request = c.Request.WithContext(ctx)
	return true
}

// ParseToken verifies an HS256 token and returns its subject as a user id.
func (am *AuthMiddleware) ParseToken(tokenString string) (uuid.UUID, error) {
	if len(am.secret) == 0 {
		return uuid.Nil, errors.New("token verification not configured")
	}
	claims := &jwt.RegisteredClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsedToken.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

package middleware

import (
	"net/http"
	"strings"

	"l2lsales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// JWTClaims are the claims this service reads from access tokens issued by
// the auth service. Only verification happens here.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor is the identity recorded in the audit trail.
func (c *JWTClaims) Actor() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTAuth validates the HS256 Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.KindAuth, "authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(apierror.KindAuth, "invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), claims.Actor()))
		c.Next()
	}
}

// GetClaims returns the verified claims, or nil when auth is disabled.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

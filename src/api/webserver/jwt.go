package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

// JWTMiddleware authenticates the bearer token and stamps the verified
// address both on the gin context ("addr") and on the request context as the
// engine principal. Engine operations authorize against that principal.
func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tok, err := jwt.Parse(h[7:], func(t *jwt.Token) (interface{}, error) { return secret, nil })
		if err != nil || !tok.Valid {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		addr, _ := tok.Claims.(jwt.MapClaims)["addr"].(string)
		if addr == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("addr", addr)
		ctx := ledger.WithPrincipal(c.Request.Context(), ledger.Address(addr))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"strings"

	dbpkg "dunar/db"
	"dunar/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxAdminKey = "auth_admin"
const ctxClientKey = "auth_client"

func parseToken(c *gin.Context) (int64, string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return 0, "", false
	}
	raw := strings.TrimSpace(h[len("Bearer "):])

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(getJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", false
	}
	tokenType, _ := claims["type"].(string)
	return int64(sub), tokenType, true
}

// AdminRequired validates the Bearer token (type=admin) and loads the admin
// from DB into context.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, tokenType, ok := parseToken(c)
		if !ok || tokenType != "admin" {
			RespondError(c, "não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}
		var admin models.Admin
		if err := db.First(&admin, sub).Error; err != nil {
			RespondError(c, "admin não encontrado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxAdminKey, admin)
		c.Next()
	}
}

// ClientRequired validates the Bearer token (type=client) and loads the user.
func ClientRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, tokenType, ok := parseToken(c)
		if !ok || tokenType != "client" {
			RespondError(c, "não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, sub).Error; err != nil {
			RespondError(c, "usuário não encontrado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxClientKey, user)
		c.Next()
	}
}

// GetAdminLogged returns the admin loaded by AdminRequired.
func GetAdminLogged(c *gin.Context) (models.Admin, bool) {
	v, ok := c.Get(ctxAdminKey)
	if !ok {
		return models.Admin{}, false
	}
	admin, ok := v.(models.Admin)
	return admin, ok
}

// GetClientLogged returns the user loaded by ClientRequired.
func GetClientLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxClientKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

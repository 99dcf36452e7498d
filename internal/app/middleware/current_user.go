package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/role"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func setCurrentUser(c *gin.Context, claims *ds.JWTClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserRole, claims.Role)
}

// GetUserID извлекает ID текущего пользователя из контекста запроса
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetUserRole извлекает роль текущего пользователя из контекста запроса
func GetUserRole(c *gin.Context) role.Role {
	value, exists := c.Get(ctxUserRole)
	if !exists {
		return role.User
	}
	r, ok := value.(role.Role)
	if !ok {
		return role.User
	}
	return r
}

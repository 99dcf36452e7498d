package ds

import (
	"github.com/golang-jwt/jwt"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/role"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID uint      `json:"user_id"`
	Role   role.Role `json:"role"`
}

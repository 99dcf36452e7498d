package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/config"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/redis"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/role"
)

const authCookieName = "auth_token"

type AuthMiddleware struct {
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck middleware для проверки авторизации с ролями (JSON API)
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		claims, ok := am.authenticate(gCtx)
		if !ok {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(assignedRoles) > 0 && !am.hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		setCurrentUser(gCtx, claims)
		gCtx.Next()
	}
}

// WithPageAuth — то же самое для HTML-страниц: вместо 401 редирект на логин
func (am *AuthMiddleware) WithPageAuth(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		claims, ok := am.authenticate(gCtx)
		if !ok {
			gCtx.Redirect(http.StatusFound, "/login/")
			gCtx.Abort()
			return
		}

		if len(assignedRoles) > 0 && !am.hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		setCurrentUser(gCtx, claims)
		gCtx.Next()
	}
}

// authenticate достаёт токен из заголовка Authorization или из куки,
// проверяет блэклист и подпись
func (am *AuthMiddleware) authenticate(gCtx *gin.Context) (*ds.JWTClaims, bool) {
	jwtStr := gCtx.GetHeader("Authorization")
	if len(jwtStr) > 7 && jwtStr[:7] == "Bearer " {
		jwtStr = jwtStr[7:]
	}
	if jwtStr == "" {
		cookie, err := gCtx.Cookie(authCookieName)
		if err != nil {
			return nil, false
		}
		jwtStr = cookie
	}

	// Токен в blacklist — сессия завершена
	if err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr); err == nil {
		return nil, false
	}

	token, err := am.parseJWTToken(jwtStr)
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, false
	}

	return claims, true
}

// parseJWTToken парсит и валидирует JWT токен
func (am *AuthMiddleware) parseJWTToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.Config.JWT.Token), nil
	})
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func (am *AuthMiddleware) hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}

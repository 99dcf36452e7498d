package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/role"
)

// RegisterPageRoutes регистрирует HTML-маршруты
func (h *Handler) RegisterPageRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// публичные страницы
	router.GET("/", h.MapView)
	router.GET("/register/", h.RegisterPage)
	router.POST("/register/", h.RegisterAction)
	router.GET("/login/", h.LoginPage)
	router.POST("/login/", h.LoginAction)
	router.POST("/logout/", h.LogoutAction)

	// страницы для авторизованных пользователей
	authorized := router.Group("/", authMiddleware.WithPageAuth(role.User, role.Moderator, role.Admin))
	{
		authorized.GET("/add-nko/", h.AddNKOPage)
		authorized.POST("/add-nko/", h.AddNKOAction)
		authorized.GET("/edit-nko/:id/", h.EditNKOPage)
		authorized.POST("/edit-nko/:id/", h.EditNKOAction)
		authorized.GET("/profile/", h.ProfilePage)
		authorized.POST("/profile/", h.ProfileAction)
	}

	// модерация — только для персонала
	moderation := router.Group("/moderation", authMiddleware.WithPageAuth(role.Moderator, role.Admin))
	{
		moderation.GET("/", h.ModerationPage)
		moderation.POST("/", h.ModerationAction)
	}
}

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// ============ Публичные JSON-эндпоинты карты ============
	router.GET("/city/:id/nkos/", h.GetNKOsByCity)
	router.GET("/category/:id/nkos/", h.GetNKOsByCategory)

	api := router.Group("/api")

	// ============ НКО ============
	nkos := api.Group("/nkos")
	{
		// Публичный список одобренных НКО
		nkos.GET("", h.GetAllNKOs)

		// Подача и редактирование — для авторизованных пользователей
		nkos.POST("", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.CreateNKO)
		nkos.PUT("/:id", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.UpdateNKO)

		// Явные действия модерации: состояние меняется только здесь,
		// никогда на читающих эндпоинтах
		nkos.PUT("/:id/approve", authMiddleware.WithAuthCheck(role.Moderator, role.Admin), h.ApproveNKO)
		nkos.PUT("/:id/reject", authMiddleware.WithAuthCheck(role.Moderator, role.Admin), h.RejectNKO)
	}

	// ============ Модерация (списки) ============
	moderation := api.Group("/moderation")
	moderation.Use(authMiddleware.WithAuthCheck(role.Moderator, role.Admin))
	{
		moderation.GET("/pending", h.GetPendingNKOs)
		moderation.GET("/approved", h.GetApprovedModerationNKOs)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.AuthHandler.UpdateProfile)
		auth.POST("/profile/avatar", authMiddleware.WithAuthCheck(role.User, role.Moderator, role.Admin), h.AuthHandler.UploadAvatar)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}

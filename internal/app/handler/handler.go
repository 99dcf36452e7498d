package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

// Handler содержит обработчики HTML-страниц
type Handler struct {
	Repository *repository.Repository
	Auth       *AuthHandler
}

func NewHandler(r *repository.Repository, auth *AuthHandler) *Handler {
	return &Handler{
		Repository: r,
		Auth:       auth,
	}
}

// Регистрация статических файлов
func (h *Handler) RegisterStatic(router *gin.Engine) {
	router.LoadHTMLGlob("templates/*")
	router.Static("/static", "./resources")
}

// Централизованная обработка ошибок
func (h *Handler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	ctx.JSON(errorStatusCode, gin.H{
		"status":      "error",
		"description": err.Error(),
	})
}

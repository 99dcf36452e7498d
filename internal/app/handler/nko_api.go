package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

// APIHandler содержит обработчики REST API
type APIHandler struct {
	Repository  *repository.Repository
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		AuthHandler: authHandler,
	}
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// submissionError переводит ошибку подачи НКО в HTTP-статус: неверные
// ссылки на справочники и повторная подача — ошибки пользователя,
// всё остальное — внутренние
func (h *APIHandler) submissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNKOAlreadyExists),
		errors.Is(err, repository.ErrCityNotFound),
		errors.Is(err, repository.ErrCategoryNotFound):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNKONotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	default:
		logrus.Error("Error saving NKO: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка сохранения НКО")
	}
}

func requestToNKOInput(req dto.CreateNKORequest) repository.NKOInput {
	return repository.NKOInput{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		VKLink:      req.VKLink,
		CityID:      req.CityID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
}

// ============ ДОМЕН НКО ============

// GetAllNKOs список всех одобренных НКО
// @Summary Все одобренные НКО
// @Description Возвращает все одобренные НКО для отрисовки карты
// @Tags NKO
// @Produce json
// @Success 200 {object} dto.NKOListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/nkos [get]
func (h *APIHandler) GetAllNKOs(c *gin.Context) {
	nkos, err := h.Repository.GetApprovedNKOs()
	if err != nil {
		logrus.Error("Error getting NKOs: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusOK, dto.NKOListResponse{NKOs: nkosToResponses(nkos, true, true)})
}

// GetNKOsByCity одобренные НКО города
// @Summary НКО по городу
// @Description Возвращает одобренные НКО выбранного города.
// @Description Неизвестный город даёт пустой список, а не ошибку
// @Tags NKO
// @Produce json
// @Param id path int true "ID города"
// @Success 200 {object} dto.NKOListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /city/{id}/nkos [get]
func (h *APIHandler) GetNKOsByCity(c *gin.Context) {
	cityID, ok := parseIDParam(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID города")
		return
	}

	nkos, err := h.Repository.GetApprovedNKOsByCity(cityID)
	if err != nil {
		logrus.Error("Error getting NKOs by city: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	// город в ответе избыточен: он и так задан запросом
	c.JSON(http.StatusOK, dto.NKOListResponse{NKOs: nkosToResponses(nkos, false, false)})
}

// GetNKOsByCategory одобренные НКО категории
// @Summary НКО по категории
// @Description Возвращает одобренные НКО выбранной категории
// @Tags NKO
// @Produce json
// @Param id path int true "ID категории"
// @Success 200 {object} dto.NKOListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /category/{id}/nkos [get]
func (h *APIHandler) GetNKOsByCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID категории")
		return
	}

	nkos, err := h.Repository.GetApprovedNKOsByCategory(categoryID)
	if err != nil {
		logrus.Error("Error getting NKOs by category: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusOK, dto.NKOListResponse{NKOs: nkosToResponses(nkos, true, false)})
}

// CreateNKO подача НКО пользователем
// @Summary Подача НКО
// @Description Создаёт НКО текущего пользователя в статусе "на модерации".
// @Description Одна НКО на аккаунт; без координат берутся координаты города
// @Tags NKO
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNKORequest true "Данные НКО"
// @Success 201 {object} dto.NKOResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/nkos [post]
func (h *APIHandler) CreateNKO(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateNKORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	nko, err := h.Repository.CreateNKO(userID, requestToNKOInput(req))
	if err != nil {
		h.submissionError(c, err)
		return
	}

	// перечитываем со справочниками для полного ответа
	created, err := h.Repository.GetNKOByID(nko.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusCreated, nkoToResponse(*created, true, true))
}

// UpdateNKO редактирование своей НКО
// @Summary Редактирование НКО
// @Description Обновляет НКО текущего пользователя и сбрасывает одобрение
// @Tags NKO
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID НКО"
// @Param request body dto.CreateNKORequest true "Данные НКО"
// @Success 200 {object} dto.NKOResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/nkos/{id} [put]
func (h *APIHandler) UpdateNKO(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	nkoID, ok := parseIDParam(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID НКО")
		return
	}

	var req dto.CreateNKORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	nko, err := h.Repository.UpdateNKO(userID, nkoID, requestToNKOInput(req))
	if err != nil {
		h.submissionError(c, err)
		return
	}

	updated, err := h.Repository.GetNKOByID(nko.ID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusOK, nkoToResponse(*updated, true, true))
}

// ============ ДОМЕН МОДЕРАЦИЯ ============

// GetPendingNKOs НКО на модерации
// @Summary НКО на модерации
// @Description Возвращает неодобренные НКО (только для модераторов)
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NKOListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/moderation/pending [get]
func (h *APIHandler) GetPendingNKOs(c *gin.Context) {
	nkos, err := h.Repository.GetPendingNKOs()
	if err != nil {
		logrus.Error("Error getting pending NKOs: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusOK, dto.NKOListResponse{NKOs: nkosToResponses(nkos, true, true)})
}

// GetApprovedModerationNKOs одобренные НКО для модератора
// @Summary Одобренные НКО
// @Description Возвращает одобренные НКО (только для модераторов)
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NKOListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/moderation/approved [get]
func (h *APIHandler) GetApprovedModerationNKOs(c *gin.Context) {
	nkos, err := h.Repository.GetApprovedNKOs()
	if err != nil {
		logrus.Error("Error getting approved NKOs: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения НКО")
		return
	}

	c.JSON(http.StatusOK, dto.NKOListResponse{NKOs: nkosToResponses(nkos, true, true)})
}

// ApproveNKO одобрение НКО. Смена статуса — только явным действием,
// никаких побочных эффектов на читающих эндпоинтах
// @Summary Одобрение НКО
// @Description Переводит НКО в статус "одобрена" (только для модераторов)
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID НКО"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/nkos/{id}/approve [put]
func (h *APIHandler) ApproveNKO(c *gin.Context) {
	h.setApproval(c, true, "НКО одобрена")
}

// RejectNKO отклонение НКО
// @Summary Отклонение НКО
// @Description Переводит НКО в статус "на модерации" (только для модераторов)
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID НКО"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/nkos/{id}/reject [put]
func (h *APIHandler) RejectNKO(c *gin.Context) {
	h.setApproval(c, false, "НКО отклонена")
}

func (h *APIHandler) setApproval(c *gin.Context, approved bool, message string) {
	nkoID, ok := parseIDParam(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID НКО")
		return
	}

	nko, err := h.Repository.SetNKOApproval(nkoID, approved)
	if err != nil {
		if errors.Is(err, repository.ErrNKONotFound) {
			h.errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		logrus.Error("Error setting approval: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка модерации НКО")
		return
	}

	h.successResponse(c, http.StatusOK, message, gin.H{
		"id":          nko.ID,
		"is_approved": nko.IsApproved,
	})
}

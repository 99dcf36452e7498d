package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

// Обработчики HTML-страниц. Мутации только на POST, все GET — чистое чтение

// MapView главная страница с картой: города и одобренные НКО
// встраиваются в шаблон как JSON
func (h *Handler) MapView(ctx *gin.Context) {
	cities, err := h.Repository.GetAllCities()
	if err != nil {
		logrus.Error(err)
		ctx.HTML(http.StatusInternalServerError, "map.html", gin.H{"error": "Ошибка загрузки городов"})
		return
	}

	categories, err := h.Repository.GetAllCategories()
	if err != nil {
		logrus.Error(err)
		ctx.HTML(http.StatusInternalServerError, "map.html", gin.H{"error": "Ошибка загрузки категорий"})
		return
	}

	approved, err := h.Repository.GetApprovedNKOs()
	if err != nil {
		logrus.Error(err)
		ctx.HTML(http.StatusInternalServerError, "map.html", gin.H{"error": "Ошибка загрузки НКО"})
		return
	}

	bootstrap := buildMapBootstrap(cities, categories, approved)

	nkoJSON, err := json.Marshal(bootstrap.NKOs)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	citiesJSON, err := json.Marshal(bootstrap.Cities)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.HTML(http.StatusOK, "map.html", gin.H{
		"categories":   bootstrap.Categories,
		"cities":       cities,
		"nkoDataJSON":  template.JS(nkoJSON),
		"citiesJSON":   template.JS(citiesJSON),
		"mapCenterLat": bootstrap.MapCenterLat,
		"mapCenterLon": bootstrap.MapCenterLon,
		"message":      ctx.Query("message"),
	})
}

// ============ Регистрация и вход ============

func (h *Handler) RegisterPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *Handler) RegisterAction(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.HTML(http.StatusBadRequest, "register.html", gin.H{
			"error": "Проверьте правильность заполнения формы",
			"login": ctx.PostForm("login"),
			"email": ctx.PostForm("email"),
		})
		return
	}

	_, token, err := h.Auth.registerAccount(request)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Ошибка регистрации, попробуйте позже"
		if errors.Is(err, errLoginTaken) {
			status = http.StatusBadRequest
			message = err.Error()
		} else {
			logrus.Error("Error registering user: ", err)
		}
		ctx.HTML(status, "register.html", gin.H{
			"error": message,
			"login": request.Login,
			"email": request.Email,
		})
		return
	}

	h.Auth.setSessionCookies(ctx, token)
	ctx.Redirect(http.StatusFound, "/add-nko/")
}

func (h *Handler) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) LoginAction(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.HTML(http.StatusBadRequest, "login.html", gin.H{"error": "Введите логин и пароль"})
		return
	}

	// неверные данные — сообщение на странице, не исключение
	_, token, err := h.Auth.authenticate(request.Login, request.Password)
	if err != nil {
		ctx.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"error": "Неверное имя пользователя или пароль",
			"login": request.Login,
		})
		return
	}

	h.Auth.setSessionCookies(ctx, token)
	ctx.Redirect(http.StatusFound, "/")
}

func (h *Handler) LogoutAction(ctx *gin.Context) {
	if token, err := ctx.Cookie("auth_token"); err == nil && token != "" {
		if err := h.Auth.blacklistToken(ctx, token); err != nil {
			logrus.Warn("Failed to blacklist token on logout: ", err)
		}
	}
	clearSessionCookies(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

// ============ Подача и редактирование НКО ============

// parseNKOForm читает поля формы НКО. Координаты попадают в результат
// только когда заполнены оба поля
func parseNKOForm(ctx *gin.Context) (repository.NKOInput, error) {
	categoryID, err := strconv.ParseUint(ctx.PostForm("category"), 10, 32)
	if err != nil {
		return repository.NKOInput{}, errors.New("выберите категорию")
	}
	cityID, err := strconv.ParseUint(ctx.PostForm("city"), 10, 32)
	if err != nil {
		return repository.NKOInput{}, errors.New("выберите город")
	}

	in := repository.NKOInput{
		Name:        ctx.PostForm("name"),
		CategoryID:  uint(categoryID),
		Description: ctx.PostForm("description"),
		Address:     ctx.PostForm("address"),
		Phone:       ctx.PostForm("phone"),
		Website:     ctx.PostForm("website"),
		VKLink:      ctx.PostForm("vk_link"),
		CityID:      uint(cityID),
	}

	if in.Name == "" || in.Description == "" {
		return repository.NKOInput{}, errors.New("название и описание обязательны")
	}

	latStr := ctx.PostForm("latitude")
	lonStr := ctx.PostForm("longitude")
	if latStr != "" && lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			return repository.NKOInput{}, errors.New("неверный формат координат")
		}
		in.Latitude = &lat
		in.Longitude = &lon
	}

	return in, nil
}

func (h *Handler) renderNKOForm(ctx *gin.Context, tmpl string, status int, extra gin.H) {
	categories, err := h.Repository.GetAllCategories()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	cities, err := h.Repository.GetAllCities()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	payload := gin.H{
		"categories": categories,
		"cities":     cities,
	}
	for k, v := range extra {
		payload[k] = v
	}
	ctx.HTML(status, tmpl, payload)
}

func (h *Handler) AddNKOPage(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	// одна НКО на аккаунт: повторная подача уводит в профиль
	existing, err := h.Repository.GetNKOByCreator(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	if existing != nil {
		ctx.Redirect(http.StatusFound, "/profile/")
		return
	}

	h.renderNKOForm(ctx, "add_nko.html", http.StatusOK, gin.H{})
}

func (h *Handler) AddNKOAction(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	in, err := parseNKOForm(ctx)
	if err != nil {
		h.renderNKOForm(ctx, "add_nko.html", http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err = h.Repository.CreateNKO(userID, in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNKOAlreadyExists):
			ctx.Redirect(http.StatusFound, "/profile/")
		case errors.Is(err, repository.ErrCityNotFound), errors.Is(err, repository.ErrCategoryNotFound):
			h.renderNKOForm(ctx, "add_nko.html", http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logrus.Error("Error creating NKO: ", err)
			h.renderNKOForm(ctx, "add_nko.html", http.StatusInternalServerError, gin.H{"error": "Ошибка при добавлении НКО"})
		}
		return
	}

	ctx.Redirect(http.StatusFound, "/?message="+url.QueryEscape("НКО успешно добавлена и отправлена на модерацию"))
}

func (h *Handler) EditNKOPage(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	nkoID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.Status(http.StatusNotFound)
		return
	}

	nko, err := h.Repository.GetNKOByCreator(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	if nko == nil || nko.ID != uint(nkoID) {
		// чужая или несуществующая НКО
		ctx.Status(http.StatusNotFound)
		return
	}

	h.renderNKOForm(ctx, "edit_nko.html", http.StatusOK, gin.H{"nko": nko})
}

func (h *Handler) EditNKOAction(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	nkoID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.Status(http.StatusNotFound)
		return
	}

	in, err := parseNKOForm(ctx)
	if err != nil {
		nko, _ := h.Repository.GetNKOByCreator(userID)
		h.renderNKOForm(ctx, "edit_nko.html", http.StatusBadRequest, gin.H{"error": err.Error(), "nko": nko})
		return
	}

	_, err = h.Repository.UpdateNKO(userID, uint(nkoID), in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNKONotFound):
			ctx.Status(http.StatusNotFound)
		case errors.Is(err, repository.ErrCityNotFound), errors.Is(err, repository.ErrCategoryNotFound):
			nko, _ := h.Repository.GetNKOByCreator(userID)
			h.renderNKOForm(ctx, "edit_nko.html", http.StatusBadRequest, gin.H{"error": err.Error(), "nko": nko})
		default:
			logrus.Error("Error updating NKO: ", err)
			nko, _ := h.Repository.GetNKOByCreator(userID)
			h.renderNKOForm(ctx, "edit_nko.html", http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении НКО", "nko": nko})
		}
		return
	}

	ctx.Redirect(http.StatusFound, "/?message="+url.QueryEscape("Информация о НКО обновлена и отправлена на модерацию"))
}

// ============ Профиль ============

func (h *Handler) ProfilePage(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	profile, err := h.Repository.GetProfileByUserID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	userNKO, err := h.Repository.GetNKOByCreator(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	cities, err := h.Repository.GetAllCities()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	var profileCityID uint
	if profile.CityID != nil {
		profileCityID = *profile.CityID
	}

	ctx.HTML(http.StatusOK, "profile.html", gin.H{
		"profile":       h.Auth.profileToResponse(user, profile),
		"profileCityID": profileCityID,
		"userNKO":       userNKO,
		"cities":        cities,
		"message":       ctx.Query("message"),
	})
}

func (h *Handler) ProfileAction(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	var request dto.UpdateProfileRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.Redirect(http.StatusFound, "/profile/?message="+url.QueryEscape("Проверьте правильность заполнения формы"))
		return
	}

	if _, err := h.Repository.UpdateProfile(userID, request.Phone, request.Bio, request.CityID); err != nil {
		logrus.Error("Error updating profile: ", err)
		ctx.Redirect(http.StatusFound, "/profile/?message="+url.QueryEscape("Ошибка обновления профиля"))
		return
	}

	// аватарка необязательна
	if file, err := ctx.FormFile("avatar"); err == nil && h.Auth.MinIOClient != nil {
		if err := h.uploadProfileAvatar(userID, file); err != nil {
			logrus.Warn("Failed to upload avatar: ", err)
		}
	}

	ctx.Redirect(http.StatusFound, "/profile/?message="+url.QueryEscape("Профиль успешно обновлён"))
}

func (h *Handler) uploadProfileAvatar(userID uint, file *multipart.FileHeader) error {
	openedFile, err := file.Open()
	if err != nil {
		return err
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		return err
	}

	objectName, err := h.Auth.MinIOClient.UploadAvatar(fileData, file.Filename)
	if err != nil {
		return err
	}

	return h.Repository.UpdateProfileAvatar(userID, objectName)
}

// ============ Модерация ============

func (h *Handler) ModerationPage(ctx *gin.Context) {
	pending, err := h.Repository.GetPendingNKOs()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}
	approved, err := h.Repository.GetApprovedNKOs()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.HTML(http.StatusOK, "moderation.html", gin.H{
		"pendingNKOs":  pending,
		"approvedNKOs": approved,
		"message":      ctx.Query("message"),
	})
}

// ModerationAction явное действие одобрения/отклонения из формы списка
func (h *Handler) ModerationAction(ctx *gin.Context) {
	nkoID, err := strconv.ParseUint(ctx.PostForm("nko_id"), 10, 32)
	if err != nil {
		ctx.Redirect(http.StatusFound, "/moderation/")
		return
	}

	var nkoName string
	var message string
	switch ctx.PostForm("action") {
	case "approve":
		nko, err := h.Repository.SetNKOApproval(uint(nkoID), true)
		if err != nil {
			ctx.Redirect(http.StatusFound, "/moderation/?message="+url.QueryEscape("НКО не найдена"))
			return
		}
		nkoName = nko.Name
		message = "НКО «" + nkoName + "» одобрена"
	case "reject":
		nko, err := h.Repository.SetNKOApproval(uint(nkoID), false)
		if err != nil {
			ctx.Redirect(http.StatusFound, "/moderation/?message="+url.QueryEscape("НКО не найдена"))
			return
		}
		nkoName = nko.Name
		message = "НКО «" + nkoName + "» отклонена"
	default:
		ctx.Redirect(http.StatusFound, "/moderation/")
		return
	}

	ctx.Redirect(http.StatusFound, "/moderation/?message="+url.QueryEscape(message))
}

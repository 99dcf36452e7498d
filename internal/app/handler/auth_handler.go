package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/config"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/redis"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/role"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/storage"
)

var (
	errLoginTaken     = errors.New("пользователь с таким логином уже существует")
	errBadCredentials = errors.New("неверное имя пользователя или пароль")
)

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	MinIOClient *storage.MinIOClient
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, minioClient *storage.MinIOClient, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		MinIOClient: minioClient,
		Config:      config,
	}
}

// generateHashString генерирует SHA-1 хеш из строки
func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// issueToken подписывает JWT для пользователя
func (h *AuthHandler) issueToken(user *ds.User) (string, error) {
	userRole := role.User
	if user.IsModerator {
		userRole = role.Moderator
	}

	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "nko-map",
		},
		UserID: user.ID,
		Role:   userRole,
	})

	return token.SignedString([]byte(h.Config.JWT.Token))
}

// registerAccount создаёт пользователя, затем явным вторым шагом его профиль
// и возвращает подписанный токен. Никаких скрытых хуков на создание записи
func (h *AuthHandler) registerAccount(req dto.RegisterRequest) (*ds.User, string, error) {
	exists, err := h.Repository.UserExistsByLogin(req.Login)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", errLoginTaken
	}

	user, err := h.Repository.CreateUser(req.Login, generateHashString(req.Password), req.Email, false)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errLoginTaken
		}
		return nil, "", err
	}

	if _, err := h.Repository.CreateProfile(user.ID); err != nil {
		return nil, "", err
	}

	token, err := h.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// authenticate проверяет логин и пароль, возвращая токен новой сессии
func (h *AuthHandler) authenticate(login, password string) (*ds.User, string, error) {
	user, err := h.Repository.GetUserByLogin(login)
	if err != nil || user.Password != generateHashString(password) {
		return nil, "", errBadCredentials
	}

	token, err := h.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// setSessionCookies устанавливает куки сессии для HTML-страниц
func (h *AuthHandler) setSessionCookies(ctx *gin.Context, token string) {
	maxAge := int(h.Config.JWT.ExpiresIn.Seconds())
	ctx.SetCookie("auth_token", token, maxAge, "/", "", false, true)
}

func clearSessionCookies(ctx *gin.Context) {
	ctx.SetCookie("auth_token", "", -1, "/", "", false, true)
}

func userToResponse(user *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Login:       user.Login,
		Email:       user.Email,
		IsModerator: user.IsModerator,
	}
}

// RegisterUser регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Создание пользователя и его профиля, сессия стартует сразу
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, accessToken, err := h.registerAccount(request)
	if err != nil {
		if errors.Is(err, errLoginTaken) {
			h.errorHandler(ctx, http.StatusBadRequest, err)
			return
		}
		logrus.Error("Error creating user: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка регистрации пользователя"))
		return
	}

	h.setSessionCookies(ctx, accessToken)

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "пользователь успешно зарегистрирован",
		"user":    userToResponse(user),
		"token":   accessToken,
	})
}

// LoginUser аутентификация пользователя
// @Summary Вход в систему
// @Description Аутентификация пользователя с возвратом JWT токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	user, accessToken, err := h.authenticate(request.Login, request.Password)
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, err)
		return
	}

	h.setSessionCookies(ctx, accessToken)

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "пользователь успешно авторизован",
		"user":       userToResponse(user),
		"token":      accessToken,
		"expires_in": int(h.Config.JWT.ExpiresIn.Seconds()),
		"token_type": "Bearer",
	})
}

// LogoutUser выход пользователя из системы
// @Summary Выход из системы
// @Description Завершение сеанса с добавлением токена в blacklist
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}
	if tokenString == "" {
		if cookie, err := ctx.Cookie("auth_token"); err == nil {
			tokenString = cookie
		}
	}
	if tokenString == "" {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("authorization header missing"))
		return
	}

	if err := h.blacklistToken(ctx, tokenString); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	clearSessionCookies(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "пользователь успешно вышел из системы",
	})
}

// blacklistToken кладёт токен в блэклист на остаток его срока действия
func (h *AuthHandler) blacklistToken(ctx *gin.Context, tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		return nil // истёкший или чужой токен блокировать незачем
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		return nil
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	return h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl)
}

// GetUserProfile получение профиля текущего пользователя
// @Summary Получение профиля
// @Description Возвращает профиль текущего пользователя
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("пользователь не авторизован"))
		return
	}

	profile, err := h.Repository.GetProfileByUserID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, errors.New("профиль не найден"))
		return
	}

	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, errors.New("пользователь не найден"))
		return
	}

	ctx.JSON(http.StatusOK, h.profileToResponse(user, profile))
}

// UpdateProfile частичное обновление профиля
// @Summary Обновление профиля
// @Description Частично обновляет телефон, описание и город профиля
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Поля для обновления"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("пользователь не авторизован"))
		return
	}

	var request dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	profile, err := h.Repository.UpdateProfile(userID, request.Phone, request.Bio, request.CityID)
	if err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			h.errorHandler(ctx, http.StatusBadRequest, err)
			return
		}
		logrus.Error("Error updating profile: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка обновления профиля"))
		return
	}

	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, h.profileToResponse(user, profile))
}

// UploadAvatar загружает аватарку профиля в MinIO
// @Summary Загрузка аватарки
// @Description Загружает аватарку текущего пользователя в MinIO
// @Tags Authentication
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Файл изображения"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth/profile/avatar [post]
func (h *AuthHandler) UploadAvatar(ctx *gin.Context) {
	userID, exists := middleware.GetUserID(ctx)
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("пользователь не авторизован"))
		return
	}

	if h.MinIOClient == nil {
		h.errorHandler(ctx, http.StatusServiceUnavailable, errors.New("хранилище аватарок не настроено"))
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, errors.New("файл не найден в запросе"))
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка чтения файла"))
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка чтения файла"))
		return
	}

	// Удаляем старую аватарку (если была)
	profile, err := h.Repository.GetProfileByUserID(userID)
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, errors.New("профиль не найден"))
		return
	}
	if profile.Avatar != nil && *profile.Avatar != "" {
		if err := h.MinIOClient.DeleteFile(*profile.Avatar); err != nil {
			logrus.Warnf("Failed to delete old avatar %s: %v", *profile.Avatar, err)
		}
	}

	objectName, err := h.MinIOClient.UploadAvatar(fileData, file.Filename)
	if err != nil {
		logrus.Error("Error uploading to MinIO: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка загрузки аватарки"))
		return
	}

	if err := h.Repository.UpdateProfileAvatar(userID, objectName); err != nil {
		logrus.Error("Error updating avatar: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("ошибка обновления аватарки"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "аватарка успешно загружена",
		"avatar":  objectName,
	})
}

func (h *AuthHandler) profileToResponse(user *ds.User, profile *ds.UserProfile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID: user.ID,
		Login:  user.Login,
		Phone:  profile.Phone,
		Bio:    profile.Bio,
		CityID: profile.CityID,
	}
	if profile.City != nil {
		resp.City = profile.City.DisplayName()
	}
	if profile.Avatar != nil && *profile.Avatar != "" && h.MinIOClient != nil {
		if url, err := h.MinIOClient.GetFileURL(*profile.Avatar); err == nil {
			resp.AvatarURL = url
		}
	}
	return resp
}

// errorHandler централизованная обработка ошибок
func (h *AuthHandler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	ctx.JSON(errorStatusCode, gin.H{
		"status":      "error",
		"description": err.Error(),
	})
}

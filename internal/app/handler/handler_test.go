package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/config"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/middleware"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/redis"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

type testEnv struct {
	router *gin.Engine
	repo   *repository.Repository
	auth   *AuthHandler
}

// setupTestServer собирает приложение на sqlite и miniredis,
// без MinIO — аватарки в этих тестах не участвуют
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := repository.NewWithDB(db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Token:         "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}

	authHandler := NewAuthHandler(repo, redisClient, nil, cfg)
	apiHandler := NewAPIHandler(repo, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.New()
	apiHandler.RegisterAPIRoutes(router, authMiddleware)

	return &testEnv{router: router, repo: repo, auth: authHandler}
}

// doJSON выполняет запрос к тестовому серверу; body сериализуется в JSON,
// token (если не пуст) уходит заголовком Authorization
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// registerTestUser регистрирует пользователя через API и возвращает его токен
func (env *testEnv) registerTestUser(t *testing.T, login string) string {
	t.Helper()

	recorder := env.doJSON(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"login":    login,
		"email":    login + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	token, ok := decodeBody(t, recorder)["token"].(string)
	require.True(t, ok, "register response must carry a token")
	return token
}

// moderatorToken создаёт модератора напрямую в БД и выдаёт ему токен
func (env *testEnv) moderatorToken(t *testing.T) string {
	t.Helper()

	moderator, err := env.repo.CreateUser("moderator", generateHashString("secret123"), "moderator@example.com", true)
	require.NoError(t, err)
	_, err = env.repo.CreateProfile(moderator.ID)
	require.NoError(t, err)

	token, err := env.auth.issueToken(moderator)
	require.NoError(t, err)
	return token
}

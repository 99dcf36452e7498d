package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/repository"
)

func seedCatalog(t *testing.T, env *testEnv) (cityID, categoryID uint) {
	t.Helper()

	city, err := env.repo.CreateCity("Саров", "Нижегородская область", 54.93, 43.32)
	require.NoError(t, err)
	category, err := env.repo.CreateCategory("Социальные", "#0055a5")
	require.NoError(t, err)
	return city.ID, category.ID
}

func TestSubmitAndModerateNKO(t *testing.T) {
	env := setupTestServer(t)
	cityID, categoryID := seedCatalog(t, env)
	userToken := env.registerTestUser(t, "submitter")
	modToken := env.moderatorToken(t)

	// подача без координат: берутся координаты города
	recorder := env.doJSON(t, http.MethodPost, "/api/nkos", userToken, gin.H{
		"name":        "Центр «Надежда»",
		"category_id": categoryID,
		"description": "Помощь детям",
		"city_id":     cityID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created dto.NKOResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 54.93, created.Latitude)
	assert.Equal(t, 43.32, created.Longitude)
	assert.Equal(t, "Социальные", created.Category)

	// до одобрения НКО не видна на карте
	recorder = env.doJSON(t, http.MethodGet, "/api/nkos", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var list dto.NKOListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	assert.Empty(t, list.NKOs)

	// но стоит в очереди модерации
	recorder = env.doJSON(t, http.MethodGet, "/api/moderation/pending", modToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.NKOs, 1)

	// одобрение — явное действие модератора
	recorder = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/nkos/%d/approve", created.ID), modToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.doJSON(t, http.MethodGet, "/api/nkos", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.NKOs, 1)
	assert.Equal(t, "Саров, Нижегородская область", list.NKOs[0].City)

	// отклонение возвращает НКО на модерацию
	recorder = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/nkos/%d/reject", created.ID), modToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.doJSON(t, http.MethodGet, "/api/nkos", "", nil)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	assert.Empty(t, list.NKOs)
}

func TestSubmitSecondNKORejected(t *testing.T) {
	env := setupTestServer(t)
	cityID, categoryID := seedCatalog(t, env)
	userToken := env.registerTestUser(t, "submitter")

	payload := gin.H{
		"name":        "Первая НКО",
		"category_id": categoryID,
		"description": "Описание",
		"city_id":     cityID,
	}
	recorder := env.doJSON(t, http.MethodPost, "/api/nkos", userToken, payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	payload["name"] = "Вторая НКО"
	recorder = env.doJSON(t, http.MethodPost, "/api/nkos", userToken, payload)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), repository.ErrNKOAlreadyExists.Error())
}

func TestUpdateNKOResetsApprovalViaAPI(t *testing.T) {
	env := setupTestServer(t)
	cityID, categoryID := seedCatalog(t, env)
	userToken := env.registerTestUser(t, "submitter")
	modToken := env.moderatorToken(t)

	recorder := env.doJSON(t, http.MethodPost, "/api/nkos", userToken, gin.H{
		"name":        "НКО",
		"category_id": categoryID,
		"description": "Описание",
		"city_id":     cityID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created dto.NKOResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/nkos/%d/approve", created.ID), modToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// правка владельцем снимает НКО с карты до повторной модерации
	recorder = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/nkos/%d", created.ID), userToken, gin.H{
		"name":        "НКО (обновлено)",
		"category_id": categoryID,
		"description": "Новое описание",
		"city_id":     cityID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.doJSON(t, http.MethodGet, "/api/nkos", "", nil)
	var list dto.NKOListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	assert.Empty(t, list.NKOs)
}

func TestModerationRequiresModeratorRole(t *testing.T) {
	env := setupTestServer(t)
	userToken := env.registerTestUser(t, "regular")

	recorder := env.doJSON(t, http.MethodGet, "/api/moderation/pending", userToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = env.doJSON(t, http.MethodPut, "/api/nkos/1/approve", userToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// без токена — 401
	recorder = env.doJSON(t, http.MethodPut, "/api/nkos/1/approve", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCityScopedEndpointOmitsCity(t *testing.T) {
	env := setupTestServer(t)
	cityID, categoryID := seedCatalog(t, env)
	userToken := env.registerTestUser(t, "submitter")
	modToken := env.moderatorToken(t)

	recorder := env.doJSON(t, http.MethodPost, "/api/nkos", userToken, gin.H{
		"name":        "НКО",
		"category_id": categoryID,
		"description": "Описание",
		"city_id":     cityID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created dto.NKOResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = env.doJSON(t, http.MethodPut, fmt.Sprintf("/api/nkos/%d/approve", created.ID), modToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.doJSON(t, http.MethodGet, fmt.Sprintf("/city/%d/nkos/", cityID), "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), `"city"`)
	assert.NotContains(t, recorder.Body.String(), `"category_id"`)

	// неизвестный город — пустой список
	recorder = env.doJSON(t, http.MethodGet, "/city/999/nkos/", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var list dto.NKOListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	assert.Empty(t, list.NKOs)
}

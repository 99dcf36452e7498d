package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

func seedReferenceData(t *testing.T, repo *Repository) (*ds.City, *ds.NKOCategory, *ds.User) {
	t.Helper()

	city, err := repo.CreateCity("Саров", "Нижегородская область", 55.0, 37.0)
	require.NoError(t, err)

	category, err := repo.CreateCategory("Социальные", "#0055a5")
	require.NoError(t, err)

	user, err := repo.CreateUser("creator1", "hash", "creator1@example.com", false)
	require.NoError(t, err)

	return city, category, user
}

func TestCreateNKOCoordinateFallback(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	// без явных координат берутся координаты города
	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "Центр «Надежда»",
		CategoryID:  category.ID,
		Description: "Помощь детям",
		CityID:      city.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 55.0, nko.Latitude)
	assert.Equal(t, 37.0, nko.Longitude)
	assert.False(t, nko.IsApproved)
}

func TestCreateNKOExplicitCoordinates(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	lat, lon := 56.25, 93.53
	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "Экологический патруль",
		CategoryID:  category.ID,
		Description: "Субботники",
		CityID:      city.ID,
		Latitude:    &lat,
		Longitude:   &lon,
	})
	require.NoError(t, err)
	assert.Equal(t, lat, nko.Latitude)
	assert.Equal(t, lon, nko.Longitude)
}

func TestCreateNKOOnePerUser(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	in := NKOInput{
		Name:        "Первая НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	}
	_, err := repo.CreateNKO(user.ID, in)
	require.NoError(t, err)

	// вторая подача того же пользователя отклоняется
	in.Name = "Вторая НКО"
	_, err = repo.CreateNKO(user.ID, in)
	assert.ErrorIs(t, err, ErrNKOAlreadyExists)

	// у другого пользователя своя квота
	other, err := repo.CreateUser("creator2", "hash", "creator2@example.com", false)
	require.NoError(t, err)
	_, err = repo.CreateNKO(other.ID, in)
	assert.NoError(t, err)
}

func TestCreateNKOUnknownReferences(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	_, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  999,
		Description: "Описание",
		CityID:      city.ID,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      999,
	})
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestUpdateNKOResetsApproval(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)

	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)

	// правка всегда сбрасывает одобрение
	updated, err := repo.UpdateNKO(user.ID, nko.ID, NKOInput{
		Name:        "НКО (обновлено)",
		CategoryID:  category.ID,
		Description: "Новое описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsApproved)
	assert.Equal(t, "НКО (обновлено)", updated.Name)

	// без новых координат старые сохраняются
	assert.Equal(t, 55.0, updated.Latitude)
	assert.Equal(t, 37.0, updated.Longitude)
}

func TestUpdateNKONotOwner(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)

	other, err := repo.CreateUser("creator2", "hash", "creator2@example.com", false)
	require.NoError(t, err)

	_, err = repo.UpdateNKO(other.ID, nko.ID, NKOInput{
		Name:        "Чужая НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	assert.ErrorIs(t, err, ErrNKONotFound)
}

func TestSetNKOApprovalIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)

	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)
	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)

	// одобрение и отклонение — просто флаг, скрытого состояния нет
	final, err := repo.SetNKOApproval(nko.ID, false)
	require.NoError(t, err)
	assert.False(t, final.IsApproved)

	stored, err := repo.GetNKOByID(nko.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsApproved)

	_, err = repo.SetNKOApproval(999, true)
	assert.ErrorIs(t, err, ErrNKONotFound)
}

func TestGetApprovedNKOsByCityUnknownID(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)
	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)

	// несуществующий город — пустой список, а не ошибка
	nkos, err := repo.GetApprovedNKOsByCity(999)
	require.NoError(t, err)
	assert.Empty(t, nkos)

	nkos, err = repo.GetApprovedNKOsByCity(city.ID)
	require.NoError(t, err)
	assert.Len(t, nkos, 1)
}

func TestApprovalFiltering(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)

	pending, err := repo.GetPendingNKOs()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := repo.GetApprovedNKOs()
	require.NoError(t, err)
	assert.Empty(t, approved)

	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)

	approved, err = repo.GetApprovedNKOs()
	require.NoError(t, err)
	assert.Len(t, approved, 1)
	assert.Equal(t, "creator1", approved[0].CreatedBy.Login)
}

func TestCategoryColorReadLive(t *testing.T) {
	repo := setupTestRepo(t)
	city, category, user := seedReferenceData(t, repo)

	nko, err := repo.CreateNKO(user.ID, NKOInput{
		Name:        "НКО",
		CategoryID:  category.ID,
		Description: "Описание",
		CityID:      city.ID,
	})
	require.NoError(t, err)
	_, err = repo.SetNKOApproval(nko.ID, true)
	require.NoError(t, err)

	// цвет категории меняется после создания НКО
	require.NoError(t, repo.UpdateCategoryColor(category.ID, "#ff0000"))

	// список всегда читает справочник на момент запроса
	approved, err := repo.GetApprovedNKOs()
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "#ff0000", approved[0].Category.Color)
}

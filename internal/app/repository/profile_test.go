package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

func TestCreateUserDuplicateLogin(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.CreateUser("ivan", "hash", "ivan@example.com", false)
	require.NoError(t, err)

	// логин уникален на уровне БД
	_, err = repo.CreateUser("ivan", "otherhash", "ivan2@example.com", false)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.UserExistsByLogin("ivan")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UserExistsByLogin("unknown")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProfileLifecycle(t *testing.T) {
	repo := setupTestRepo(t)

	user, err := repo.CreateUser("ivan", "hash", "ivan@example.com", false)
	require.NoError(t, err)

	// профиля ещё нет
	_, err = repo.GetProfileByUserID(user.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	profile, err := repo.CreateProfile(user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Phone)
	assert.Nil(t, profile.CityID)

	city, err := repo.CreateCity("Обнинск", "Калужская область", 55.11, 36.61)
	require.NoError(t, err)

	phone := "+7 900 000-00-00"
	bio := "Волонтёр"
	updated, err := repo.UpdateProfile(user.ID, &phone, &bio, &city.ID)
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, bio, updated.Bio)
	require.NotNil(t, updated.CityID)
	assert.Equal(t, city.ID, *updated.CityID)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Обнинск", updated.City.Name)

	// nil-поля не затираются
	newBio := "Координатор"
	updated, err = repo.UpdateProfile(user.ID, nil, &newBio, nil)
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, newBio, updated.Bio)

	// несуществующий город отклоняется
	badCity := uint(999)
	_, err = repo.UpdateProfile(user.ID, nil, nil, &badCity)
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestUpdateProfileAvatar(t *testing.T) {
	repo := setupTestRepo(t)

	user, err := repo.CreateUser("ivan", "hash", "ivan@example.com", false)
	require.NoError(t, err)

	// без профиля аватарку сохранять некуда
	err = repo.UpdateProfileAvatar(user.ID, "avatar_1.png")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = repo.CreateProfile(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateProfileAvatar(user.ID, "avatar_1.png"))

	profile, err := repo.GetProfileByUserID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Avatar)
	assert.Equal(t, "avatar_1.png", *profile.Avatar)
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
)

func TestComputeMapCenter(t *testing.T) {
	cities := []ds.City{
		{Latitude: 54.0, Longitude: 36.0},
		{Latitude: 56.0, Longitude: 38.0},
	}

	lat, lon := computeMapCenter(cities)
	assert.Equal(t, 55.0, lat)
	assert.Equal(t, 37.0, lon)
}

func TestComputeMapCenterNoCities(t *testing.T) {
	// без городов карта центрируется на Москве
	lat, lon := computeMapCenter(nil)
	assert.Equal(t, 55.7558, lat)
	assert.Equal(t, 37.6173, lon)
}

func TestNKOToResponseFieldToggles(t *testing.T) {
	nko := ds.NKO{
		ID:          7,
		Name:        "Центр «Надежда»",
		CategoryID:  3,
		Category:    ds.NKOCategory{ID: 3, Name: "Социальные", Color: "#0055a5"},
		Description: "Помощь детям",
		CityID:      2,
		City:        ds.City{ID: 2, Name: "Саров", Region: "Нижегородская область"},
		Latitude:    54.93,
		Longitude:   43.32,
	}

	full := nkoToResponse(nko, true, true)
	assert.Equal(t, "Социальные", full.Category)
	assert.Equal(t, "#0055a5", full.CategoryColor)
	assert.Equal(t, uint(3), full.CategoryID)
	assert.Equal(t, "Саров, Нижегородская область", full.City)

	// на эндпоинте города поле city опускается
	scoped := nkoToResponse(nko, false, false)
	assert.Empty(t, scoped.City)
	assert.Zero(t, scoped.CategoryID)
	assert.Equal(t, "#0055a5", scoped.CategoryColor)
}

func TestBuildMapBootstrap(t *testing.T) {
	cities := []ds.City{{ID: 1, Name: "Москва", Latitude: 55.7558, Longitude: 37.6173}}
	categories := []ds.NKOCategory{{ID: 1, Name: "Социальные", Color: "#0055a5"}}

	bootstrap := buildMapBootstrap(cities, categories, nil)
	assert.Len(t, bootstrap.Cities, 1)
	assert.Len(t, bootstrap.Categories, 1)
	assert.Empty(t, bootstrap.NKOs)
	assert.Equal(t, 55.7558, bootstrap.MapCenterLat)
	assert.Equal(t, 37.6173, bootstrap.MapCenterLon)
}

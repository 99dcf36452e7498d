package handler

import (
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/ds"
	"github.com/orangelox/TheMapOfGoodDeeds2/internal/app/dto"
)

// Сборка JSON-представлений для карты. Название и цвет категории всегда
// берутся из подгруженного справочника, ничего не кэшируется в записи НКО

// computeMapCenter возвращает центр карты — среднее координат всех городов.
// Без городов центр ставится на Москву
func computeMapCenter(cities []ds.City) (float64, float64) {
	if len(cities) == 0 {
		return ds.DefaultLatitude, ds.DefaultLongitude
	}

	var sumLat, sumLon float64
	for _, city := range cities {
		sumLat += city.Latitude
		sumLon += city.Longitude
	}
	return sumLat / float64(len(cities)), sumLon / float64(len(cities))
}

func cityToResponse(city ds.City) dto.CityResponse {
	return dto.CityResponse{
		ID:        city.ID,
		Name:      city.Name,
		Region:    city.Region,
		Latitude:  city.Latitude,
		Longitude: city.Longitude,
	}
}

func categoryToResponse(category ds.NKOCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:    category.ID,
		Name:  category.Name,
		Color: category.Color,
	}
}

// nkoToResponse собирает единый JSON-вид НКО. На эндпоинте города поле
// city избыточно и опускается, category_id отдаётся только списочным
// эндпоинтам, которые по нему фильтруют
func nkoToResponse(nko ds.NKO, withCity, withCategoryID bool) dto.NKOResponse {
	resp := dto.NKOResponse{
		ID:            nko.ID,
		Name:          nko.Name,
		Category:      nko.Category.Name,
		CategoryColor: nko.Category.Color,
		Description:   nko.Description,
		Address:       nko.Address,
		Phone:         nko.Phone,
		Website:       nko.Website,
		VKLink:        nko.VKLink,
		Latitude:      nko.Latitude,
		Longitude:     nko.Longitude,
	}
	if withCity {
		resp.City = nko.City.DisplayName()
	}
	if withCategoryID {
		resp.CategoryID = nko.CategoryID
	}
	return resp
}

func nkosToResponses(nkos []ds.NKO, withCity, withCategoryID bool) []dto.NKOResponse {
	responses := make([]dto.NKOResponse, len(nkos))
	for i, nko := range nkos {
		responses[i] = nkoToResponse(nko, withCity, withCategoryID)
	}
	return responses
}

// buildMapBootstrap собирает полезную нагрузку главной страницы:
// города, категории, одобренные НКО и центр карты
func buildMapBootstrap(cities []ds.City, categories []ds.NKOCategory, approved []ds.NKO) dto.MapBootstrapResponse {
	centerLat, centerLon := computeMapCenter(cities)

	cityResponses := make([]dto.CityResponse, len(cities))
	for i, city := range cities {
		cityResponses[i] = cityToResponse(city)
	}

	categoryResponses := make([]dto.CategoryResponse, len(categories))
	for i, category := range categories {
		categoryResponses[i] = categoryToResponse(category)
	}

	return dto.MapBootstrapResponse{
		Cities:       cityResponses,
		Categories:   categoryResponses,
		NKOs:         nkosToResponses(approved, true, true),
		MapCenterLat: centerLat,
		MapCenterLon: centerLon,
	}
}

package dto

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ НКО ============

// NKOResponse — единый JSON-вид НКО для всех отдающих JSON эндпоинтов.
// Название и цвет категории всегда читаются из справочника на момент
// запроса. Поле city опускается на эндпоинте /city/:id/nkos/, где оно
// избыточно, category_id — там, где не нужно фильтровать
type NKOResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CategoryID    uint    `json:"category_id,omitempty"`
	CategoryColor string  `json:"category_color"`
	Description   string  `json:"description"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	Website       string  `json:"website"`
	VKLink        string  `json:"vk_link"`
	City          string  `json:"city,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

type NKOListResponse struct {
	NKOs []NKOResponse `json:"nkos"`
}

// CreateNKORequest — подача НКО пользователем. Координаты необязательны:
// без них берутся координаты выбранного города
type CreateNKORequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	CategoryID  uint     `json:"category_id" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone" binding:"max=20"`
	Website     string   `json:"website" binding:"omitempty,url"`
	VKLink      string   `json:"vk_link" binding:"omitempty,url"`
	CityID      uint     `json:"city_id" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// ============ Карта ============

type CityResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CategoryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// MapBootstrapResponse — полезная нагрузка главной страницы: города,
// одобренные НКО и вычисленный центр карты
type MapBootstrapResponse struct {
	Cities       []CityResponse     `json:"cities"`
	Categories   []CategoryResponse `json:"categories"`
	NKOs         []NKOResponse      `json:"nkos"`
	MapCenterLat float64            `json:"map_center_lat"`
	MapCenterLon float64            `json:"map_center_lon"`
}

// ============ Пользователи ============

type UserResponse struct {
	ID          uint   `json:"id"`
	Login       string `json:"login"`
	Email       string `json:"email"`
	IsModerator bool   `json:"is_moderator"`
}

// RegisterRequest — единственное определение формы регистрации: его
// используют и обработчик регистрации, и cmd/migrate при создании
// служебных аккаунтов
type RegisterRequest struct {
	Login    string `json:"login" form:"login" binding:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ============ Профиль ============

type ProfileResponse struct {
	UserID    uint   `json:"user_id"`
	Login     string `json:"login"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	CityID    *uint  `json:"city_id,omitempty"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UpdateProfileRequest — частичное обновление: nil-поля не трогаются
type UpdateProfileRequest struct {
	Phone  *string `json:"phone" form:"phone" binding:"omitempty,max=20"`
	Bio    *string `json:"bio" form:"bio"`
	CityID *uint   `json:"city_id" form:"city_id"`
}

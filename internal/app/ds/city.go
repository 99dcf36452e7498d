package ds

// Координаты Москвы — значение по умолчанию для городов и центра карты
const (
	DefaultLatitude  = 55.7558
	DefaultLongitude = 37.6173
)

// Справочник городов. Создаётся через cmd/migrate, приложением не удаляется
type City struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"type:varchar(100);not null"`
	Region    string  `gorm:"type:varchar(100);not null"`
	Latitude  float64 `gorm:"not null;default:55.7558"`
	Longitude float64 `gorm:"not null;default:37.6173"`
}

// DisplayName возвращает строку вида "Саров, Нижегородская область"
func (c City) DisplayName() string {
	return c.Name + ", " + c.Region
}

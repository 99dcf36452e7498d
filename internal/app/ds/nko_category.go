package ds

// Справочник категорий НКО. Цвет используется для маркеров на карте
type NKOCategory struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"type:varchar(100);not null"`
	Color string `gorm:"type:varchar(7);default:'#0055a5';not null"`
}

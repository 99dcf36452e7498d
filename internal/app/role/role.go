package role

// Роли пользователей системы
type Role int

const (
	User      Role = iota // обычный пользователь
	Moderator             // модератор НКО
	Admin                 // администратор
)

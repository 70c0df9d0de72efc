package db_models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	BaseModel
	Nickname     string `gorm:"uniqueIndex;size:20;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	KakaoID      *string `gorm:"uniqueIndex"`
	BirthYear    *int
	Role         string `gorm:"size:16;not null"`
	Bookmarks    []Bookmark
}

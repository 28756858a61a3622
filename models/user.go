package models

// User 用户模型
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Username     string `json:"username" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

package models

// Category 全局消费类别，名称唯一，无归属用户
type Category struct {
	Name string `json:"name" bson:"name" gorm:"primaryKey;size:255"`
}

// TableName 设置表名（category_store=sql 时使用）
func (Category) TableName() string {
	return "categories"
}

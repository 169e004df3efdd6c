package types

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Image       string    `gorm:"column:image" json:"image"`
	Text        string    `gorm:"not null;column:text" json:"text"`
	CookingTime int       `gorm:"not null;column:cooking_time" json:"cooking_time"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }

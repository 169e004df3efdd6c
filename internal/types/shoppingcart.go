package types

import (
	"time"

	"github.com/google/uuid"
)

type ShoppingCart struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_shopping_cart_user_recipe,unique,priority:1" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index:idx_shopping_cart_user_recipe,unique,priority:2" json:"recipe_id"`
	Recipe   *Recipe   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ShoppingCart) TableName() string { return "shopping_cart" }

package types

import (
	"github.com/google/uuid"
)

// RecipeIngredient carries the per-recipe amount for one catalog ingredient.
// Rows are owned by their recipe: replaced wholesale on update, never patched
// one by one. The unique index keeps a recipe from listing the same
// ingredient twice.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_recipe_ingredient,unique,priority:1" json:"-"`
	Recipe       *Recipe     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;index:idx_recipe_ingredient,unique,priority:2" json:"id"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:RESTRICT;foreignKey:IngredientID;references:ID" json:"-"`
	Amount       int         `gorm:"not null;column:amount" json:"amount"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }

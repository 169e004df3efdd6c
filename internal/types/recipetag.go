package types

import (
	"github.com/google/uuid"
)

// RecipeTag rows form the recipe/tag membership set. Assignment replaces the
// whole set rather than diffing it.
type RecipeTag struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index:idx_recipe_tag,unique,priority:1" json:"recipe_id"`
	Recipe   *Recipe   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"-"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;index:idx_recipe_tag,unique,priority:2" json:"tag_id"`
	Tag      *Tag      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TagID;references:ID" json:"-"`
}

func (RecipeTag) TableName() string { return "recipe_tag" }

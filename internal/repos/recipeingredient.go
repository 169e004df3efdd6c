package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// ShoppingListRow is one line of the aggregated cart: the grouping key is the
// display pair (name, measurement_unit), not the ingredient id, so catalog
// duplicates that read identically merge into one total.
type ShoppingListRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

type RecipeIngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error)
	DeleteByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error
	SumForUserCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]ShoppingListRow, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	repoLog := baseLog.With("repo", "RecipeIngredientRepo")
	return &recipeIngredientRepo{db: db, log: repoLog}
}

func (rir *recipeIngredientRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}

	if len(items) == 0 {
		return []*types.RecipeIngredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (rir *recipeIngredientRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}

	var results []*types.RecipeIngredient
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rir *recipeIngredientRepo) DeleteByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}

	if len(recipeIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("recipe_id IN ?", recipeIDs).
		Delete(&types.RecipeIngredient{}).Error
}

// SumForUserCart runs the shopping list aggregation in one grouped query:
// every ingredient row of every recipe in the user's cart, grouped by
// (name, measurement_unit) with amounts summed. Row order is whatever the
// grouping yields; callers must not rely on it.
func (rir *recipeIngredientRepo) SumForUserCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]ShoppingListRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = rir.db
	}

	var rows []ShoppingListRow
	if err := transaction.WithContext(ctx).
		Table("recipe_ingredient").
		Select("ingredient.name AS name, ingredient.measurement_unit AS measurement_unit, SUM(recipe_ingredient.amount) AS total").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Joins("JOIN shopping_cart ON shopping_cart.recipe_id = recipe_ingredient.recipe_id").
		Where("shopping_cart.user_id = ?", userID).
		Group("ingredient.name, ingredient.measurement_unit").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

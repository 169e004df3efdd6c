package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

type RecipeTagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, links []*types.RecipeTag) ([]*types.RecipeTag, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeTag, error)
	DeleteByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error
}

type recipeTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	repoLog := baseLog.With("repo", "RecipeTagRepo")
	return &recipeTagRepo{db: db, log: repoLog}
}

func (rtr *recipeTagRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.RecipeTag) ([]*types.RecipeTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = rtr.db
	}

	if len(links) == 0 {
		return []*types.RecipeTag{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (rtr *recipeTagRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeTag, error) {
	transaction := tx
	if transaction == nil {
		transaction = rtr.db
	}

	var results []*types.RecipeTag
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Tag").
		Where("recipe_id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rtr *recipeTagRepo) DeleteByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rtr.db
	}

	if len(recipeIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("recipe_id IN ?", recipeIDs).
		Delete(&types.RecipeTag{}).Error
}

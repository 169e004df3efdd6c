package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// RecipeFilter narrows List. Zero values mean "no filter". FavoritedBy and
// InCartOf only make sense for authenticated callers; the handler leaves
// them nil for anonymous requests.
type RecipeFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Limit       int
	Offset      int
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error)
	GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID, limit int) ([]*types.Recipe, error)
	CountByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	repoLog := baseLog.With("repo", "RecipeRepo")
	return &recipeRepo{db: db, log: repoLog}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipes) == 0 {
		return []*types.Recipe{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (rr *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe
	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Author").
		Where("id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) GetByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID, limit int) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe
	if len(authorIDs) == 0 {
		return results, nil
	}

	query := transaction.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) CountByAuthorIDs(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter RecipeFilter) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Preload("Author").
		Order("recipe.created_at DESC")

	if filter.AuthorID != uuid.Nil {
		query = query.Where("recipe.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		// OR over slugs; Distinct collapses the rows produced by recipes
		// carrying more than one matching tag.
		query = query.
			Joins("JOIN recipe_tag ON recipe_tag.recipe_id = recipe.id").
			Joins("JOIN tag ON tag.id = recipe_tag.tag_id").
			Where("tag.slug IN ?", filter.TagSlugs).
			Distinct("recipe.*")
	}
	if filter.FavoritedBy != uuid.Nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM favorite WHERE favorite.recipe_id = recipe.id AND favorite.user_id = ?)",
			filter.FavoritedBy,
		)
	}
	if filter.InCartOf != uuid.Nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM shopping_cart WHERE shopping_cart.recipe_id = recipe.id AND shopping_cart.user_id = ?)",
			filter.InCartOf,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var results []*types.Recipe
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", recipeID).
		Updates(fields).Error
}

func (rr *recipeRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipeIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", recipeIDs).
		Delete(&types.Recipe{}).Error
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// MembershipService manages the caller's favorite and shopping cart sets.
// Both are plain (user, recipe) sets: adding a present pair and removing an
// absent pair are errors, never silent no-ops.
type MembershipService interface {
	AddFavorite(ctx context.Context, recipeID uuid.UUID) (*RecipeMinifiedView, error)
	RemoveFavorite(ctx context.Context, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, recipeID uuid.UUID) (*RecipeMinifiedView, error)
	RemoveFromCart(ctx context.Context, recipeID uuid.UUID) error
}

type membershipService struct {
	db               *gorm.DB
	log              *logger.Logger
	recipeRepo       repos.RecipeRepo
	favoriteRepo     repos.FavoriteRepo
	shoppingCartRepo repos.ShoppingCartRepo
	events           EventRecorder
}

func NewMembershipService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recipeRepo repos.RecipeRepo,
	favoriteRepo repos.FavoriteRepo,
	shoppingCartRepo repos.ShoppingCartRepo,
	events EventRecorder,
) MembershipService {
	serviceLog := baseLog.With("service", "MembershipService")
	return &membershipService{
		db:               db,
		log:              serviceLog,
		recipeRepo:       recipeRepo,
		favoriteRepo:     favoriteRepo,
		shoppingCartRepo: shoppingCartRepo,
		events:           events,
	}
}

func (ms *membershipService) loadRecipe(ctx context.Context, recipeID uuid.UUID) (*types.Recipe, error) {
	recipes, err := ms.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}
	return recipes[0], nil
}

func (ms *membershipService) AddFavorite(ctx context.Context, recipeID uuid.UUID) (*RecipeMinifiedView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	recipe, err := ms.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	present, err := ms.favoriteRepo.Exists(ctx, nil, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check favorite: %w", err)
	}
	if present {
		return nil, apierr.AlreadyExists("recipe is already in favorites")
	}

	entry := &types.Favorite{ID: uuid.New(), UserID: userID, RecipeID: recipeID}
	if _, err := ms.favoriteRepo.Create(ctx, nil, []*types.Favorite{entry}); err != nil {
		// The unique index backstops the check above under concurrency.
		if isUniqueViolation(err) {
			return nil, apierr.AlreadyExists("recipe is already in favorites")
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	ms.events.Record(ctx, userID, types.EventFavoriteAdded, map[string]any{"recipe_id": recipeID})
	return NewRecipeMinifiedView(recipe), nil
}

func (ms *membershipService) RemoveFavorite(ctx context.Context, recipeID uuid.UUID) error {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Forbidden("authentication required")
	}

	if _, err := ms.loadRecipe(ctx, recipeID); err != nil {
		return err
	}

	removed, err := ms.favoriteRepo.DeleteByUserAndRecipe(ctx, nil, userID, recipeID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if removed == 0 {
		return apierr.Validation(apierr.CodeNotFound, "recipe is not in favorites")
	}

	ms.events.Record(ctx, userID, types.EventFavoriteRemoved, map[string]any{"recipe_id": recipeID})
	return nil
}

func (ms *membershipService) AddToCart(ctx context.Context, recipeID uuid.UUID) (*RecipeMinifiedView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	recipe, err := ms.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	present, err := ms.shoppingCartRepo.Exists(ctx, nil, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check cart: %w", err)
	}
	if present {
		return nil, apierr.AlreadyExists("recipe is already in the shopping cart")
	}

	entry := &types.ShoppingCart{ID: uuid.New(), UserID: userID, RecipeID: recipeID}
	if _, err := ms.shoppingCartRepo.Create(ctx, nil, []*types.ShoppingCart{entry}); err != nil {
		if isUniqueViolation(err) {
			return nil, apierr.AlreadyExists("recipe is already in the shopping cart")
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	ms.events.Record(ctx, userID, types.EventShoppingCartAdded, map[string]any{"recipe_id": recipeID})
	return NewRecipeMinifiedView(recipe), nil
}

func (ms *membershipService) RemoveFromCart(ctx context.Context, recipeID uuid.UUID) error {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Forbidden("authentication required")
	}

	if _, err := ms.loadRecipe(ctx, recipeID); err != nil {
		return err
	}

	removed, err := ms.shoppingCartRepo.DeleteByUserAndRecipe(ctx, nil, userID, recipeID)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if removed == 0 {
		return apierr.Validation(apierr.CodeNotFound, "recipe is not in the shopping cart")
	}

	ms.events.Record(ctx, userID, types.EventShoppingCartRemoved, map[string]any{"recipe_id": recipeID})
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/logger"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// IngredientItem is one submitted (ingredient, amount) pair. The payload is
// strongly typed before it reaches any business logic.
type IngredientItem struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeInput is the full create/update payload. Updates replace the whole
// association set, so Ingredients and TagIDs must both be present; nil means
// the field was absent from the request.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	Ingredients []IngredientItem
	TagIDs      []uuid.UUID
}

type ListRecipesInput struct {
	AuthorID         uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type RecipeService interface {
	Create(ctx context.Context, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, recipeID uuid.UUID, input RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, recipeID uuid.UUID) error
	GetByID(ctx context.Context, recipeID uuid.UUID) (*RecipeView, error)
	List(ctx context.Context, input ListRecipesInput) ([]*RecipeView, error)
	ShortLink(ctx context.Context, recipeID uuid.UUID, host string) (string, error)

	ValidateIngredients(ctx context.Context, tx *gorm.DB, items []IngredientItem) (map[uuid.UUID]*types.Ingredient, error)
	ValidateTags(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) ([]*types.Tag, error)
	ReplaceAssociations(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tagIDs []uuid.UUID, items []IngredientItem) error
}

type recipeService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	recipeRepo           repos.RecipeRepo
	ingredientRepo       repos.IngredientRepo
	tagRepo              repos.TagRepo
	recipeIngredientRepo repos.RecipeIngredientRepo
	recipeTagRepo        repos.RecipeTagRepo
	favoriteRepo         repos.FavoriteRepo
	shoppingCartRepo     repos.ShoppingCartRepo
	subscriptionRepo     repos.SubscriptionRepo
	media                MediaStore
	events               EventRecorder
}

func NewRecipeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recipeRepo repos.RecipeRepo,
	ingredientRepo repos.IngredientRepo,
	tagRepo repos.TagRepo,
	recipeIngredientRepo repos.RecipeIngredientRepo,
	recipeTagRepo repos.RecipeTagRepo,
	favoriteRepo repos.FavoriteRepo,
	shoppingCartRepo repos.ShoppingCartRepo,
	subscriptionRepo repos.SubscriptionRepo,
	media MediaStore,
	events EventRecorder,
) RecipeService {
	serviceLog := baseLog.With("service", "RecipeService")
	return &recipeService{
		db:                   db,
		log:                  serviceLog,
		recipeRepo:           recipeRepo,
		ingredientRepo:       ingredientRepo,
		tagRepo:              tagRepo,
		recipeIngredientRepo: recipeIngredientRepo,
		recipeTagRepo:        recipeTagRepo,
		favoriteRepo:         favoriteRepo,
		shoppingCartRepo:     shoppingCartRepo,
		subscriptionRepo:     subscriptionRepo,
		media:                media,
		events:               events,
	}
}

// ValidateIngredients applies the submission rules in order and fails fast:
// non-empty list, every id resolves in the catalog, no repeated id, every
// amount at least 1. Returns the resolved catalog rows keyed by id.
func (rs *recipeService) ValidateIngredients(ctx context.Context, tx *gorm.DB, items []IngredientItem) (map[uuid.UUID]*types.Ingredient, error) {
	if len(items) == 0 {
		return nil, apierr.Validation(apierr.CodeEmptyIngredients, "at least one ingredient is required")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	found, err := rs.ingredientRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Ingredient, len(found))
	for _, ingredient := range found {
		byID[ingredient.ID] = ingredient
	}
	for _, item := range items {
		if _, ok := byID[item.ID]; !ok {
			return nil, apierr.Validation(apierr.CodeUnknownIngredient, "unknown ingredient id %s", item.ID)
		}
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, apierr.Validation(apierr.CodeDuplicateIngredient, "ingredient %s is listed more than once", item.ID)
		}
		seen[item.ID] = true
	}

	for _, item := range items {
		if item.Amount < 1 {
			return nil, apierr.Validation(apierr.CodeInvalidAmount, "amount for ingredient %s must be at least 1", item.ID)
		}
	}

	return byID, nil
}

// ValidateTags requires a non-empty list of known, non-repeating tag ids.
func (rs *recipeService) ValidateTags(ctx context.Context, tx *gorm.DB, tagIDs []uuid.UUID) ([]*types.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, apierr.Validation(apierr.CodeEmptyTags, "at least one tag is required")
	}

	found, err := rs.tagRepo.GetByIDs(ctx, tx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Tag, len(found))
	for _, tag := range found {
		byID[tag.ID] = tag
	}
	for _, tagID := range tagIDs {
		if _, ok := byID[tagID]; !ok {
			return nil, apierr.Validation(apierr.CodeUnknownTag, "unknown tag id %s", tagID)
		}
	}

	seen := make(map[uuid.UUID]bool, len(tagIDs))
	resolved := make([]*types.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			return nil, apierr.Validation(apierr.CodeDuplicateTag, "tag %s is listed more than once", tagID)
		}
		seen[tagID] = true
		resolved = append(resolved, byID[tagID])
	}

	return resolved, nil
}

// ReplaceAssociations swaps the recipe's whole association set:
// delete-then-bulk-insert for ingredient rows, wholesale membership
// replacement for tags. Callers wrap it in a transaction so a failure
// between the delete and the insert rolls back to the prior state. Recipe
// scalar columns are never touched here.
func (rs *recipeService) ReplaceAssociations(ctx context.Context, tx *gorm.DB, recipe *types.Recipe, tagIDs []uuid.UUID, items []IngredientItem) error {
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}

	if err := rs.recipeIngredientRepo.DeleteByRecipeIDs(ctx, transaction, []uuid.UUID{recipe.ID}); err != nil {
		return fmt.Errorf("delete ingredient associations: %w", err)
	}
	links := make([]*types.RecipeIngredient, 0, len(items))
	for _, item := range items {
		links = append(links, &types.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipe.ID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if _, err := rs.recipeIngredientRepo.Create(ctx, transaction, links); err != nil {
		return fmt.Errorf("insert ingredient associations: %w", err)
	}

	if err := rs.recipeTagRepo.DeleteByRecipeIDs(ctx, transaction, []uuid.UUID{recipe.ID}); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	tagLinks := make([]*types.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tagLinks = append(tagLinks, &types.RecipeTag{
			ID:       uuid.New(),
			RecipeID: recipe.ID,
			TagID:    tagID,
		})
	}
	if _, err := rs.recipeTagRepo.Create(ctx, transaction, tagLinks); err != nil {
		return fmt.Errorf("insert tag links: %w", err)
	}

	return nil
}

func (rs *recipeService) validateScalars(input RecipeInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.Validation(apierr.CodeMissingField, "name is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return apierr.Validation(apierr.CodeMissingField, "text is required")
	}
	if input.CookingTime < 1 {
		return apierr.Validation(apierr.CodeInvalidCookingTime, "cooking_time must be at least 1")
	}
	return nil
}

func (rs *recipeService) Create(ctx context.Context, input RecipeInput) (*RecipeView, error) {
	authorID := requestdata.UserID(ctx)
	if authorID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	if err := rs.validateScalars(input); err != nil {
		return nil, err
	}
	if input.Ingredients == nil {
		return nil, apierr.Validation(apierr.CodeMissingField, "ingredients field is required")
	}
	if input.TagIDs == nil {
		return nil, apierr.Validation(apierr.CodeMissingField, "tags field is required")
	}
	if strings.TrimSpace(input.Image) == "" {
		return nil, apierr.Validation(apierr.CodeMissingField, "image is required")
	}

	if _, err := rs.ValidateIngredients(ctx, nil, input.Ingredients); err != nil {
		return nil, err
	}
	if _, err := rs.ValidateTags(ctx, nil, input.TagIDs); err != nil {
		return nil, err
	}

	imagePath, err := rs.media.SaveBase64Image(input.Image)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Recipe row and its full association set commit or roll back together.
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return rs.ReplaceAssociations(ctx, tx, recipe, input.TagIDs, input.Ingredients)
	}); err != nil {
		rs.log.Error("Recipe create failed", "error", err)
		return nil, err
	}

	rs.events.Record(ctx, authorID, types.EventRecipeCreated, map[string]any{
		"recipe_id": recipe.ID,
		"name":      recipe.Name,
	})

	return rs.GetByID(ctx, recipe.ID)
}

func (rs *recipeService) Update(ctx context.Context, recipeID uuid.UUID, input RecipeInput) (*RecipeView, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Forbidden("authentication required")
	}

	recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}
	recipe := recipes[0]
	if recipe.AuthorID != userID {
		return nil, apierr.Forbidden("only the author can edit this recipe")
	}

	// Replace-all semantics cannot be satisfied by a partial payload, so a
	// PATCH that omits ingredients or tags is malformed.
	if input.Ingredients == nil {
		return nil, apierr.Validation(apierr.CodeMissingField, "ingredients field is required")
	}
	if input.TagIDs == nil {
		return nil, apierr.Validation(apierr.CodeMissingField, "tags field is required")
	}
	if err := rs.validateScalars(input); err != nil {
		return nil, err
	}

	if _, err := rs.ValidateIngredients(ctx, nil, input.Ingredients); err != nil {
		return nil, err
	}
	if _, err := rs.ValidateTags(ctx, nil, input.TagIDs); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name":         input.Name,
		"text":         input.Text,
		"cooking_time": input.CookingTime,
		"updated_at":   time.Now(),
	}
	if strings.TrimSpace(input.Image) != "" {
		imagePath, err := rs.media.SaveBase64Image(input.Image)
		if err != nil {
			return nil, err
		}
		fields["image"] = imagePath
	}

	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.recipeRepo.UpdateFields(ctx, tx, recipe.ID, fields); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		return rs.ReplaceAssociations(ctx, tx, recipe, input.TagIDs, input.Ingredients)
	}); err != nil {
		rs.log.Error("Recipe update failed", "recipe_id", recipe.ID, "error", err)
		return nil, err
	}

	rs.events.Record(ctx, userID, types.EventRecipeUpdated, map[string]any{
		"recipe_id": recipe.ID,
	})

	return rs.GetByID(ctx, recipe.ID)
}

func (rs *recipeService) Delete(ctx context.Context, recipeID uuid.UUID) error {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Forbidden("authentication required")
	}

	recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return fmt.Errorf("load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return apierr.NotFound("recipe %s not found", recipeID)
	}
	if recipes[0].AuthorID != userID {
		return apierr.Forbidden("only the author can delete this recipe")
	}

	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rs.recipeIngredientRepo.DeleteByRecipeIDs(ctx, tx, []uuid.UUID{recipeID}); err != nil {
			return err
		}
		if err := rs.recipeTagRepo.DeleteByRecipeIDs(ctx, tx, []uuid.UUID{recipeID}); err != nil {
			return err
		}
		return rs.recipeRepo.DeleteByIDs(ctx, tx, []uuid.UUID{recipeID})
	}); err != nil {
		rs.log.Error("Recipe delete failed", "recipe_id", recipeID, "error", err)
		return fmt.Errorf("delete recipe: %w", err)
	}

	rs.events.Record(ctx, userID, types.EventRecipeDeleted, map[string]any{
		"recipe_id": recipeID,
	})

	return nil
}

func (rs *recipeService) GetByID(ctx context.Context, recipeID uuid.UUID) (*RecipeView, error) {
	recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, apierr.NotFound("recipe %s not found", recipeID)
	}

	views, err := rs.buildViews(ctx, recipes)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (rs *recipeService) List(ctx context.Context, input ListRecipesInput) ([]*RecipeView, error) {
	userID := requestdata.UserID(ctx)

	filter := repos.RecipeFilter{
		AuthorID: input.AuthorID,
		TagSlugs: input.TagSlugs,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	// Membership filters only apply for authenticated callers.
	if userID != uuid.Nil && input.IsFavorited {
		filter.FavoritedBy = userID
	}
	if userID != uuid.Nil && input.IsInShoppingCart {
		filter.InCartOf = userID
	}

	recipes, err := rs.recipeRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return rs.buildViews(ctx, recipes)
}

// ShortLink mints a non-persisted short code for sharing.
func (rs *recipeService) ShortLink(ctx context.Context, recipeID uuid.UUID, host string) (string, error) {
	recipes, err := rs.recipeRepo.GetByIDs(ctx, nil, []uuid.UUID{recipeID})
	if err != nil {
		return "", fmt.Errorf("load recipe: %w", err)
	}
	if len(recipes) == 0 {
		return "", apierr.NotFound("recipe %s not found", recipeID)
	}
	code := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("http://%s/r/%s", host, code), nil
}

// buildViews assembles full representations for a recipe batch: tags,
// ingredient lines, author with subscription flag and the caller's
// favorite/cart membership. Everything loads in batches keyed by recipe id.
func (rs *recipeService) buildViews(ctx context.Context, recipes []*types.Recipe) ([]*RecipeView, error) {
	userID := requestdata.UserID(ctx)

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	ingredientLinks, err := rs.recipeIngredientRepo.GetByRecipeIDs(ctx, nil, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load ingredient associations: %w", err)
	}
	tagLinks, err := rs.recipeTagRepo.GetByRecipeIDs(ctx, nil, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load tag links: %w", err)
	}
	favorited, err := rs.favoriteRepo.ExistsForRecipes(ctx, nil, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load favorite membership: %w", err)
	}
	inCart, err := rs.shoppingCartRepo.ExistsForRecipes(ctx, nil, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart membership: %w", err)
	}
	subscribed, err := rs.subscriptionRepo.ExistsForAuthors(ctx, nil, userID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	ingredientsByRecipe := make(map[uuid.UUID][]IngredientInRecipeView, len(recipes))
	for _, link := range ingredientLinks {
		view := IngredientInRecipeView{
			ID:     link.IngredientID,
			Amount: link.Amount,
		}
		if link.Ingredient != nil {
			view.Name = link.Ingredient.Name
			view.MeasurementUnit = link.Ingredient.MeasurementUnit
		}
		ingredientsByRecipe[link.RecipeID] = append(ingredientsByRecipe[link.RecipeID], view)
	}
	tagsByRecipe := make(map[uuid.UUID][]*types.Tag, len(recipes))
	for _, link := range tagLinks {
		if link.Tag != nil {
			tagsByRecipe[link.RecipeID] = append(tagsByRecipe[link.RecipeID], link.Tag)
		}
	}

	views := make([]*RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		tags := tagsByRecipe[recipe.ID]
		if tags == nil {
			tags = []*types.Tag{}
		}
		ingredients := ingredientsByRecipe[recipe.ID]
		if ingredients == nil {
			ingredients = []IngredientInRecipeView{}
		}
		views = append(views, &RecipeView{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           NewUserView(recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            recipe.Image,
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return views, nil
}

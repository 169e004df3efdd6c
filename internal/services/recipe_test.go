package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/apierr"
	"github.com/forkfeed/forkfeed-backend/internal/repos"
	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/requestdata"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// fakeMediaStore keeps image handling out of service tests.
type fakeMediaStore struct{}

func (fakeMediaStore) SaveBase64Image(string) (string, error) { return "/media/recipes/test.png", nil }
func (fakeMediaStore) Dir() string                            { return "media" }

func seedUser(t *testing.T, tx *gorm.DB, email string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedIngredient(t *testing.T, tx *gorm.DB, name, unit string) *types.Ingredient {
	t.Helper()
	ingredient := &types.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	if err := tx.Create(ingredient).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	return ingredient
}

func seedTag(t *testing.T, tx *gorm.DB, name, slug string) *types.Tag {
	t.Helper()
	tag := &types.Tag{ID: uuid.New(), Name: name, Slug: slug}
	if err := tx.Create(tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}

func seedRecipe(t *testing.T, tx *gorm.DB, author *types.User, name string) *types.Recipe {
	t.Helper()
	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Image:       "/media/recipes/seed.png",
		Text:        "seeded",
		CookingTime: 10,
	}
	if err := tx.Create(recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

func buildRecipeService(t *testing.T, tx *gorm.DB) RecipeService {
	t.Helper()
	log := testutil.Logger(t)
	return NewRecipeService(
		tx,
		log,
		repos.NewRecipeRepo(tx, log),
		repos.NewIngredientRepo(tx, log),
		repos.NewTagRepo(tx, log),
		repos.NewRecipeIngredientRepo(tx, log),
		repos.NewRecipeTagRepo(tx, log),
		repos.NewFavoriteRepo(tx, log),
		repos.NewShoppingCartRepo(tx, log),
		repos.NewSubscriptionRepo(tx, log),
		fakeMediaStore{},
		NewEventRecorder(tx, log, repos.NewUserEventRepo(tx, log)),
	)
}

func TestRecipeServiceIngredientValidationOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	service := buildRecipeService(t, tx)

	flour := seedIngredient(t, tx, "Flour", "g")
	sugar := seedIngredient(t, tx, "Sugar", "g")
	unknownID := uuid.New()

	tests := []struct {
		name     string
		items    []IngredientItem
		wantCode string
	}{
		{
			name:     "empty list",
			items:    []IngredientItem{},
			wantCode: apierr.CodeEmptyIngredients,
		},
		{
			name: "unknown ingredient",
			items: []IngredientItem{
				{ID: flour.ID, Amount: 100},
				{ID: unknownID, Amount: 100},
			},
			wantCode: apierr.CodeUnknownIngredient,
		},
		{
			name: "duplicate ingredient",
			items: []IngredientItem{
				{ID: flour.ID, Amount: 100},
				{ID: flour.ID, Amount: 200},
			},
			wantCode: apierr.CodeDuplicateIngredient,
		},
		{
			name: "zero amount",
			items: []IngredientItem{
				{ID: flour.ID, Amount: 0},
			},
			wantCode: apierr.CodeInvalidAmount,
		},
		{
			name: "unknown reported before duplicate and amount",
			items: []IngredientItem{
				{ID: unknownID, Amount: 0},
				{ID: flour.ID, Amount: 100},
				{ID: flour.ID, Amount: 0},
			},
			wantCode: apierr.CodeUnknownIngredient,
		},
		{
			name: "duplicate reported before amount",
			items: []IngredientItem{
				{ID: sugar.ID, Amount: 0},
				{ID: sugar.ID, Amount: 5},
			},
			wantCode: apierr.CodeDuplicateIngredient,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateIngredients(ctx, tx, tt.items)
			if err == nil {
				t.Fatalf("expected error with code %q, got nil", tt.wantCode)
			}
			apiErr, ok := apierr.As(err)
			if !ok {
				t.Fatalf("expected api error, got %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q (%v)", tt.wantCode, apiErr.Code, err)
			}
		})
	}

	resolved, err := service.ValidateIngredients(ctx, tx, []IngredientItem{
		{ID: flour.ID, Amount: 200},
		{ID: sugar.ID, Amount: 100},
	})
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved ingredients, got %d", len(resolved))
	}
}

func TestRecipeServiceTagValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	service := buildRecipeService(t, tx)

	breakfast := seedTag(t, tx, "Breakfast", "breakfast")
	dinner := seedTag(t, tx, "Dinner", "dinner")

	tests := []struct {
		name     string
		tagIDs   []uuid.UUID
		wantCode string
	}{
		{"empty list", []uuid.UUID{}, apierr.CodeEmptyTags},
		{"unknown tag", []uuid.UUID{breakfast.ID, uuid.New()}, apierr.CodeUnknownTag},
		{"duplicate tag", []uuid.UUID{breakfast.ID, breakfast.ID}, apierr.CodeDuplicateTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateTags(ctx, tx, tt.tagIDs)
			if err == nil {
				t.Fatalf("expected error with code %q, got nil", tt.wantCode)
			}
			apiErr, ok := apierr.As(err)
			if !ok {
				t.Fatalf("expected api error, got %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
		})
	}

	tags, err := service.ValidateTags(ctx, tx, []uuid.UUID{dinner.ID, breakfast.ID})
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != dinner.ID {
		t.Fatalf("expected resolved tags in submission order")
	}
}

func TestRecipeServiceReplaceAssociations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	service := buildRecipeService(t, tx)
	riRepo := repos.NewRecipeIngredientRepo(tx, log)
	rtRepo := repos.NewRecipeTagRepo(tx, log)

	author := seedUser(t, tx, "replace@example.com")
	recipe := seedRecipe(t, tx, author, "Pancakes")
	flour := seedIngredient(t, tx, "Flour", "g")
	sugar := seedIngredient(t, tx, "Sugar", "g")
	egg := seedIngredient(t, tx, "Egg", "pcs")
	breakfast := seedTag(t, tx, "Breakfast", "breakfast")
	dinner := seedTag(t, tx, "Dinner", "dinner")

	if err := service.ReplaceAssociations(ctx, tx, recipe,
		[]uuid.UUID{breakfast.ID},
		[]IngredientItem{{ID: flour.ID, Amount: 200}, {ID: sugar.ID, Amount: 50}},
	); err != nil {
		t.Fatalf("initial associations: %v", err)
	}

	// A second replace swaps the whole set, nothing from the first survives.
	if err := service.ReplaceAssociations(ctx, tx, recipe,
		[]uuid.UUID{dinner.ID},
		[]IngredientItem{{ID: egg.ID, Amount: 3}},
	); err != nil {
		t.Fatalf("replace associations: %v", err)
	}

	links, err := riRepo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("load ingredient links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 ingredient link after replace, got %d", len(links))
	}
	if links[0].IngredientID != egg.ID || links[0].Amount != 3 {
		t.Fatalf("unexpected surviving link: %+v", links[0])
	}

	tagLinks, err := rtRepo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("load tag links: %v", err)
	}
	if len(tagLinks) != 1 || tagLinks[0].TagID != dinner.ID {
		t.Fatalf("expected only the dinner tag after replace")
	}

	// Replaying the identical payload leaves the set unchanged.
	if err := service.ReplaceAssociations(ctx, tx, recipe,
		[]uuid.UUID{dinner.ID},
		[]IngredientItem{{ID: egg.ID, Amount: 3}},
	); err != nil {
		t.Fatalf("idempotent replace: %v", err)
	}
	links, err = riRepo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("reload ingredient links: %v", err)
	}
	if len(links) != 1 || links[0].IngredientID != egg.ID || links[0].Amount != 3 {
		t.Fatalf("replay changed the association set: %+v", links)
	}
}

// failingInsertRecipeIngredientRepo passes everything through except the bulk
// insert, which fails after the delete has already run.
type failingInsertRecipeIngredientRepo struct {
	repos.RecipeIngredientRepo
}

func (failingInsertRecipeIngredientRepo) Create(ctx context.Context, tx *gorm.DB, links []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	return nil, errors.New("insert rejected")
}

func TestRecipeServiceUpdateRollsBackOnInsertFailure(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	service := buildRecipeService(t, tx)
	riRepo := repos.NewRecipeIngredientRepo(tx, log)

	author := seedUser(t, tx, "rollback@example.com")
	recipe := seedRecipe(t, tx, author, "Pancakes")
	flour := seedIngredient(t, tx, "Flour", "g")
	egg := seedIngredient(t, tx, "Egg", "pcs")
	breakfast := seedTag(t, tx, "Breakfast", "breakfast")

	if err := service.ReplaceAssociations(ctx, tx, recipe,
		[]uuid.UUID{breakfast.ID},
		[]IngredientItem{{ID: flour.ID, Amount: 200}},
	); err != nil {
		t.Fatalf("initial associations: %v", err)
	}

	broken := NewRecipeService(
		tx,
		log,
		repos.NewRecipeRepo(tx, log),
		repos.NewIngredientRepo(tx, log),
		repos.NewTagRepo(tx, log),
		failingInsertRecipeIngredientRepo{RecipeIngredientRepo: riRepo},
		repos.NewRecipeTagRepo(tx, log),
		repos.NewFavoriteRepo(tx, log),
		repos.NewShoppingCartRepo(tx, log),
		repos.NewSubscriptionRepo(tx, log),
		fakeMediaStore{},
		NewEventRecorder(tx, log, repos.NewUserEventRepo(tx, log)),
	)

	authedCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: author.ID})
	_, err := broken.Update(authedCtx, recipe.ID, RecipeInput{
		Name:        "Renamed",
		Text:        "changed",
		CookingTime: 20,
		Ingredients: []IngredientItem{{ID: egg.ID, Amount: 3}},
		TagIDs:      []uuid.UUID{breakfast.ID},
	})
	if err == nil {
		t.Fatalf("expected update to fail")
	}

	// The delete ran before the insert failed; the transaction must restore
	// the prior rows so the recipe is never left without ingredients.
	links, err := riRepo.GetByRecipeIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("reload ingredient links: %v", err)
	}
	if len(links) != 1 || links[0].IngredientID != flour.ID || links[0].Amount != 200 {
		t.Fatalf("prior associations did not survive the rollback: %+v", links)
	}

	recipes, err := repos.NewRecipeRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("reload recipe: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "Pancakes" {
		t.Fatalf("scalar fields did not survive the rollback: %+v", recipes[0])
	}
}

package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

func seedUser(t *testing.T, tx *gorm.DB, email string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedRecipe(t *testing.T, tx *gorm.DB, authorID uuid.UUID, name string) *types.Recipe {
	t.Helper()
	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        name,
		Text:        "some text",
		CookingTime: 10,
	}
	if err := tx.Create(recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

func seedIngredient(t *testing.T, tx *gorm.DB, name, unit string) *types.Ingredient {
	t.Helper()
	ing := &types.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := tx.Create(ing).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func TestFavoriteRepoMembership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewFavoriteRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := seedUser(t, tx, "favrepo@example.com")
	recipeA := seedRecipe(t, tx, user.ID, "Pancakes")
	recipeB := seedRecipe(t, tx, user.ID, "Omelette")

	if _, err := repo.Create(ctx, tx, []*types.Favorite{
		{ID: uuid.New(), UserID: user.ID, RecipeID: recipeA.ID},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.Exists(ctx, tx, user.ID, recipeA.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("Exists: expected member")
	}

	membership, err := repo.ExistsForRecipes(ctx, tx, user.ID, []uuid.UUID{recipeA.ID, recipeB.ID})
	if err != nil {
		t.Fatalf("ExistsForRecipes: %v", err)
	}
	if !membership[recipeA.ID] || membership[recipeB.ID] {
		t.Fatalf("ExistsForRecipes: unexpected membership: %+v", membership)
	}

	// Second insert for the same pair must hit the unique index.
	if _, err := repo.Create(ctx, tx, []*types.Favorite{
		{ID: uuid.New(), UserID: user.ID, RecipeID: recipeA.ID},
	}); err == nil {
		t.Fatalf("Create duplicate: expected unique violation")
	}

	// The duplicate insert poisoned the outer transaction; use a fresh one.
	tx2 := testutil.Tx(t, db)
	user2 := seedUser(t, tx2, "favrepo2@example.com")
	recipe2 := seedRecipe(t, tx2, user2.ID, "Borscht")

	if _, err := repo.Create(ctx, tx2, []*types.Favorite{
		{ID: uuid.New(), UserID: user2.ID, RecipeID: recipe2.ID},
	}); err != nil {
		t.Fatalf("Create (fresh tx): %v", err)
	}

	deleted, err := repo.DeleteByUserAndRecipe(ctx, tx2, user2.ID, recipe2.ID)
	if err != nil {
		t.Fatalf("DeleteByUserAndRecipe: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("DeleteByUserAndRecipe: expected 1 row, got %d", deleted)
	}

	deleted, err = repo.DeleteByUserAndRecipe(ctx, tx2, user2.ID, recipe2.ID)
	if err != nil {
		t.Fatalf("DeleteByUserAndRecipe (repeat): %v", err)
	}
	if deleted != 0 {
		t.Fatalf("DeleteByUserAndRecipe (repeat): expected 0 rows, got %d", deleted)
	}
}

package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkfeed/forkfeed-backend/internal/repos/testutil"
	"github.com/forkfeed/forkfeed-backend/internal/types"
)

func seedTag(t *testing.T, tx *gorm.DB, name, slug string) *types.Tag {
	t.Helper()
	tag := &types.Tag{ID: uuid.New(), Name: name, Slug: slug}
	if err := tx.Create(tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}

func TestRecipeRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewRecipeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	alice := seedUser(t, tx, "alice-recipes@example.com")
	bob := seedUser(t, tx, "bob-recipes@example.com")

	breakfast := seedTag(t, tx, "Breakfast", "breakfast-list")
	dinner := seedTag(t, tx, "Dinner", "dinner-list")

	pancakes := seedRecipe(t, tx, alice.ID, "Pancakes")
	stew := seedRecipe(t, tx, bob.ID, "Stew")
	omelette := seedRecipe(t, tx, alice.ID, "Omelette")

	for _, link := range []*types.RecipeTag{
		{ID: uuid.New(), RecipeID: pancakes.ID, TagID: breakfast.ID},
		{ID: uuid.New(), RecipeID: omelette.ID, TagID: breakfast.ID},
		{ID: uuid.New(), RecipeID: omelette.ID, TagID: dinner.ID},
		{ID: uuid.New(), RecipeID: stew.ID, TagID: dinner.ID},
	} {
		if err := tx.Create(link).Error; err != nil {
			t.Fatalf("seed recipe tag: %v", err)
		}
	}

	byAuthor, err := repo.List(ctx, tx, RecipeFilter{AuthorID: alice.ID})
	if err != nil {
		t.Fatalf("List by author: %v", err)
	}
	if len(byAuthor) != 2 {
		t.Fatalf("List by author: expected 2 recipes, got %d", len(byAuthor))
	}
	for _, recipe := range byAuthor {
		if recipe.AuthorID != alice.ID {
			t.Fatalf("List by author: foreign recipe %+v", recipe)
		}
	}

	// A recipe with two matching tags must not appear twice.
	byTags, err := repo.List(ctx, tx, RecipeFilter{TagSlugs: []string{"breakfast-list", "dinner-list"}})
	if err != nil {
		t.Fatalf("List by tags: %v", err)
	}
	seen := map[uuid.UUID]int{}
	for _, recipe := range byTags {
		seen[recipe.ID]++
	}
	if seen[omelette.ID] != 1 {
		t.Fatalf("List by tags: omelette appeared %d times", seen[omelette.ID])
	}
	if len(byTags) != 3 {
		t.Fatalf("List by tags: expected 3 distinct recipes, got %d", len(byTags))
	}

	fav := &types.Favorite{ID: uuid.New(), UserID: bob.ID, RecipeID: pancakes.ID}
	if err := tx.Create(fav).Error; err != nil {
		t.Fatalf("seed favorite: %v", err)
	}
	favorited, err := repo.List(ctx, tx, RecipeFilter{FavoritedBy: bob.ID})
	if err != nil {
		t.Fatalf("List favorited: %v", err)
	}
	if len(favorited) != 1 || favorited[0].ID != pancakes.ID {
		t.Fatalf("List favorited: unexpected result: %+v", favorited)
	}

	counts, err := repo.CountByAuthorIDs(ctx, tx, []uuid.UUID{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("CountByAuthorIDs: %v", err)
	}
	if counts[alice.ID] != 2 || counts[bob.ID] != 1 {
		t.Fatalf("CountByAuthorIDs: unexpected counts: %+v", counts)
	}
}

package services

import (
	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/types"
)

// API representations. Views are assembled in the service layer so handlers
// only serialize.

type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
	Avatar       string    `json:"avatar"`
}

func NewUserView(user *types.User, isSubscribed bool) *UserView {
	if user == nil {
		return nil
	}
	return &UserView{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       user.AvatarURL,
	}
}

type IngredientInRecipeView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeView struct {
	ID                uuid.UUID                `json:"id"`
	Tags              []*types.Tag             `json:"tags"`
	Author            *UserView                `json:"author"`
	Ingredients       []IngredientInRecipeView `json:"ingredients"`
	IsFavorited       bool                     `json:"is_favorited"`
	IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
	Name              string                   `json:"name"`
	Image             string                   `json:"image"`
	Text              string                   `json:"text"`
	CookingTime       int                      `json:"cooking_time"`
}

// RecipeMinifiedView is the short representation returned by the membership
// endpoints.
type RecipeMinifiedView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewRecipeMinifiedView(recipe *types.Recipe) *RecipeMinifiedView {
	if recipe == nil {
		return nil
	}
	return &RecipeMinifiedView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

type SubscriptionView struct {
	UserView
	Recipes      []*RecipeMinifiedView `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

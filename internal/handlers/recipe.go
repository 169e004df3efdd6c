package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/services"
)

type RecipeHandler struct {
	recipeService       services.RecipeService
	membershipService   services.MembershipService
	shoppingListService services.ShoppingListService
}

func NewRecipeHandler(
	recipeService services.RecipeService,
	membershipService services.MembershipService,
	shoppingListService services.ShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
	}
}

// recipeRequest keeps nil and [] distinct: an absent ingredients or tags
// field decodes to a nil slice, which the service rejects as a missing field.
type recipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
	Image       string                    `json:"image"`
	Ingredients []services.IngredientItem `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
}

// boolFlag accepts both spellings clients use for the membership filters.
func boolFlag(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

func (rr recipeRequest) toInput() services.RecipeInput {
	return services.RecipeInput{
		Name:        rr.Name,
		Text:        rr.Text,
		CookingTime: rr.CookingTime,
		Image:       rr.Image,
		Ingredients: rr.Ingredients,
		TagIDs:      rr.Tags,
	}
}

func (rh *RecipeHandler) List(c *gin.Context) {
	input := services.ListRecipesInput{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      boolFlag(c.Query("is_favorited")),
		IsInShoppingCart: boolFlag(c.Query("is_in_shopping_cart")),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		input.AuthorID = authorID
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		input.Limit = n
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		input.Offset = n
	}

	views, err := rh.recipeService.List(c.Request.Context(), input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, views)
}

func (rh *RecipeHandler) Get(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := rh.recipeService.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (rh *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := rh.recipeService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (rh *RecipeHandler) Update(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := rh.recipeService.Update(c.Request.Context(), recipeID, req.toInput())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (rh *RecipeHandler) Delete(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := rh.recipeService.Delete(c.Request.Context(), recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rh *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	link, err := rh.recipeService.ShortLink(c.Request.Context(), recipeID, c.Request.Host)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"short-link": link})
}

func (rh *RecipeHandler) AddFavorite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := rh.membershipService.AddFavorite(c.Request.Context(), recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := rh.membershipService.RemoveFavorite(c.Request.Context(), recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rh *RecipeHandler) AddToCart(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := rh.membershipService.AddToCart(c.Request.Context(), recipeID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := rh.membershipService.RemoveFromCart(c.Request.Context(), recipeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	rows, err := rh.shoppingListService.Generate(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	body := rh.shoppingListService.Render(rows)
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

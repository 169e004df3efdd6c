package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfeed/forkfeed-backend/internal/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (ih *IngredientHandler) List(c *gin.Context) {
	ingredients, err := ih.ingredientService.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, ingredients)
}

func (ih *IngredientHandler) Get(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ingredient, err := ih.ingredientService.GetByID(c.Request.Context(), ingredientID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, ingredient)
}

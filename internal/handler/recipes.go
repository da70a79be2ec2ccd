package handler

import (
	"net/http"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/apierror"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecipesHandler struct{ svc service.RecipeService }

func NewRecipesHandler(svc service.RecipeService) *RecipesHandler {
	return &RecipesHandler{svc: svc}
}

func (h *RecipesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListRecipes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipesHandler) Get(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Replace swaps the product's whole recipe atomically.
func (h *RecipesHandler) Replace(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req dto.ReplaceRecipeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReplaceRecipe(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func productIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode("invalid product id", apierror.CodeInvalidRequest))
		return uuid.Nil, false
	}
	return id, true
}

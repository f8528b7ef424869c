package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/utils"
)

type AIController struct {
	Generator *services.Generator
}

func NewAIController(gen *services.Generator) *AIController {
	return &AIController{Generator: gen}
}

type itemDetailsRequest struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
}

type itemImageRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GenerateItemDetails drafts description, price and dietary flags. Data is null when nothing
// could be generated.
func (ac *AIController) GenerateItemDetails(c *gin.Context) {
	var req itemDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	details := ac.Generator.ItemDetails(c.Request.Context(), req.Name, req.Category)
	if details == nil {
		utils.RespondJSON(c, http.StatusOK, "No details generated", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Details generated", details)
}

// GenerateItemImage returns an image data URL, or an empty one when generation failed.
func (ac *AIController) GenerateItemImage(c *gin.Context) {
	var req itemImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	img := ac.Generator.ItemImage(c.Request.Context(), req.Name, req.Description)
	msg := "Image generated"
	if img == "" {
		msg = "No image generated"
	}
	utils.RespondJSON(c, http.StatusOK, msg, gin.H{"imageUrl": img})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/utils"
	"github.com/yeremiapane/paradise-cafe/view"
)

type StorefrontController struct {
	Site *services.Site
}

func NewStorefrontController(site *services.Site) *StorefrontController {
	return &StorefrontController{Site: site}
}

// GetStorefront composes the public page. The hero shows the first banner; live rotation
// happens over the websocket.
func (sc *StorefrontController) GetStorefront(c *gin.Context) {
	category := models.Category(c.DefaultQuery("category", string(models.CategoryAll)))
	page := view.ComposeStorefront(sc.Site.State(), category, 0)
	utils.RespondJSON(c, http.StatusOK, "Storefront", page)
}

// GetCollection returns the mirrored value of one collection.
func (sc *StorefrontController) GetCollection(c *gin.Context) {
	state := sc.Site.State()

	var data interface{}
	switch c.Param("name") {
	case models.CollectionMenuItems:
		data = state.MenuItems
	case models.CollectionBanners:
		data = state.Banners
	case models.CollectionOffers:
		data = state.Offers
	case models.CollectionMenuPages:
		data = state.MenuPages
	case models.CollectionSettings:
		data = state.Settings
	default:
		utils.RespondError(c, http.StatusNotFound, errors.New("unknown collection"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, c.Param("name"), data)
}

type SommelierController struct {
	Site        *services.Site
	Recommender *services.Recommender
}

func NewSommelierController(site *services.Site, rec *services.Recommender) *SommelierController {
	return &SommelierController{Site: site, Recommender: rec}
}

type sommelierRequest struct {
	Query string `json:"query" form:"query"`
}

// Recommend answers a guest's craving with dishes from the current menu. It always succeeds;
// an unavailable engine yields an empty list.
func (sc *SommelierController) Recommend(c *gin.Context) {
	var req sommelierRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	recs := sc.Recommender.Recommend(c.Request.Context(), req.Query, sc.Site.Menu.Snapshot())
	utils.RespondJSON(c, http.StatusOK, "Recommendations", recs)
}

package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/utils"
)

// maxFormMemory is how much of a multipart form is kept in memory before spilling to disk.
const maxFormMemory = 32 << 20

type AdminController struct {
	Site    *services.Site
	Encoder *ingest.Encoder
}

func NewAdminController(site *services.Site, encoder *ingest.Encoder) *AdminController {
	if encoder == nil {
		encoder = ingest.NewEncoder(0)
	}
	return &AdminController{Site: site, Encoder: encoder}
}

// CreateMenuItem accepts the add-item form as JSON or form fields.
func (ac *AdminController) CreateMenuItem(c *gin.Context) {
	var in services.MenuItemInput
	if err := c.ShouldBind(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	if fh, err := c.FormFile("image"); err == nil {
		payload, err := ac.Encoder.EncodeFile(fh)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		in.ImageURL = string(payload)
	}

	item, err := ac.Site.Menu.AddItem(c.Request.Context(), in)
	if err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem patches fields of one dish in a single write. The body maps JSON field names
// to new values.
func (ac *AdminController) UpdateMenuItem(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, ok, err := ac.Site.Menu.UpdateItem(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondWriteError(c, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (ac *AdminController) DeleteMenuItem(c *gin.Context) {
	if err := ac.Site.Menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

// UploadBanners adds one banner per uploaded image.
func (ac *AdminController) UploadBanners(c *gin.Context) {
	payloads, failed, ok := ac.encodeUploads(c, "images")
	if !ok {
		return
	}

	banners, err := ac.Site.Banners.AddImages(c.Request.Context(), payloads)
	if err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, uploadMessage("Banners uploaded", failed), gin.H{
		"banners": banners,
		"failed":  failed,
	})
}

type bannerTextRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
}

func (ac *AdminController) UpdateBanner(c *gin.Context) {
	var req bannerTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("id")
	if req.Title != nil {
		if err := ac.Site.Banners.UpdateText(c.Request.Context(), id, "title", *req.Title); err != nil {
			respondWriteError(c, err)
			return
		}
	}
	if req.Subtitle != nil {
		if err := ac.Site.Banners.UpdateText(c.Request.Context(), id, "subtitle", *req.Subtitle); err != nil {
			respondWriteError(c, err)
			return
		}
	}

	banner, _ := ac.Site.Banners.Find(id)
	utils.RespondJSON(c, http.StatusOK, "Banner updated", banner)
}

func (ac *AdminController) DeleteBanner(c *gin.Context) {
	if err := ac.Site.Banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Banner deleted", nil)
}

// CreateOffer takes the offer form with an optional image.
func (ac *AdminController) CreateOffer(c *gin.Context) {
	var in services.OfferInput
	if err := c.ShouldBind(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if fh, err := c.FormFile("image"); err == nil {
		payload, err := ac.Encoder.EncodeFile(fh)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		in.Image = payload
	}

	offer, err := ac.Site.Offers.CreateOffer(c.Request.Context(), in)
	if err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Offer created", offer)
}

func (ac *AdminController) DeleteOffer(c *gin.Context) {
	if err := ac.Site.Offers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Offer deleted", nil)
}

// UploadMenuPages adds scanned menu pages in upload order.
func (ac *AdminController) UploadMenuPages(c *gin.Context) {
	payloads, failed, ok := ac.encodeUploads(c, "images")
	if !ok {
		return
	}

	pages, err := ac.Site.MenuPages.AddImages(c.Request.Context(), payloads)
	if err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, uploadMessage("Menu pages uploaded", failed), gin.H{
		"menuPages": pages,
		"failed":    failed,
	})
}

func (ac *AdminController) DeleteMenuPage(c *gin.Context) {
	if err := ac.Site.MenuPages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu page deleted", nil)
}

func (ac *AdminController) GetSettings(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Settings", ac.Site.Settings.Current())
}

// UpdateSettings saves the settings form. Omitted fields keep their current value; a "logo"
// file replaces the logo and removeLogo=true clears it.
func (ac *AdminController) UpdateSettings(c *gin.Context) {
	draft := ac.Site.Settings.Draft()

	for _, field := range []string{"days", "hours"} {
		if value, ok := c.GetPostForm(field); ok {
			if err := draft.Set(field, value); err != nil {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
		}
	}

	if c.PostForm("removeLogo") == "true" {
		_ = draft.Set("logoUrl", "")
	}
	if fh, err := c.FormFile("logo"); err == nil {
		payload, err := ac.Encoder.EncodeFile(fh)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		_ = draft.Set("logoUrl", string(payload))
	}

	if err := ac.Site.Settings.Save(c.Request.Context(), draft.Settings); err != nil {
		respondWriteError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings saved", draft.Settings)
}

// GetSyncStatus reports write outcomes and the mirrored versions.
func (ac *AdminController) GetSyncStatus(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Sync status", gin.H{
		"origin": ac.Site.Gateway.Origin(),
		"writes": ac.Site.Monitor.GetMetrics(),
		"versions": gin.H{
			models.CollectionMenuItems: ac.Site.Menu.Version(),
			models.CollectionBanners:   ac.Site.Banners.Version(),
			models.CollectionOffers:    ac.Site.Offers.Version(),
			models.CollectionMenuPages: ac.Site.MenuPages.Version(),
		},
	})
}

// encodeUploads reads every file under field. Files that fail are reported by name and
// skipped; the request only fails when nothing usable was uploaded.
func (ac *AdminController) encodeUploads(c *gin.Context, field string) ([]ingest.ImagePayload, []string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return nil, nil, false
	}

	files := append([]*multipart.FileHeader{}, form.File[field]...)
	files = append(files, form.File[field+"[]"]...)
	if len(files) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("at least one image is required"))
		return nil, nil, false
	}

	payloads, err := ac.Encoder.EncodeFiles(c.Request.Context(), files)
	failed := []string{}
	var ierr *ingest.IngestionError
	if errors.As(err, &ierr) {
		for i := range files {
			if name, ok := ierr.Names[i]; ok {
				failed = append(failed, name)
			}
		}
	} else if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, nil, false
	}

	if len(failed) == len(files) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, nil, false
	}
	return payloads, failed, true
}

func uploadMessage(msg string, failed []string) string {
	if len(failed) == 0 {
		return msg
	}
	return msg + "; skipped " + strings.Join(failed, ", ")
}

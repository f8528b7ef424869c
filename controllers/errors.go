package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/services"
	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/utils"
)

// respondWriteError maps an editor error onto a status code.
func respondWriteError(c *gin.Context, err error) {
	var werr *store.RemoteWriteError
	switch {
	case errors.Is(err, store.ErrPayloadTooLarge):
		utils.RespondError(c, http.StatusRequestEntityTooLarge, err)
	case errors.As(err, &werr):
		utils.RespondError(c, http.StatusBadGateway, err)
	case errors.Is(err, services.ErrNotStarted), errors.Is(err, store.ErrGatewayClosed):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	case errors.Is(err, services.ErrOfferIncomplete),
		errors.Is(err, services.ErrUnknownField),
		errors.Is(err, services.ErrImmutableField),
		errors.Is(err, services.ErrInvalidField):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

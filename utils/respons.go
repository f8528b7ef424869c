package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes err as the message. Server-side failures are also logged with the route.
func RespondError(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		ErrorLogger.WithError(err).WithField("route", c.FullPath()).Error("request failed")
	}
	_ = c.Error(err)

	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

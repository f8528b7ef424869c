package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/paradise-cafe/realtime"
	"github.com/yeremiapane/paradise-cafe/utils"
)

type WSController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWSController accepts connections from allowedOrigin, or from anywhere when it is "*" or empty.
func NewWSController(hub *realtime.Hub, allowedOrigin string) *WSController {
	return &WSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Handle upgrades the request and serves one UI session until it disconnects.
func (wc *WSController) Handle(c *gin.Context) {
	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	wc.Hub.Serve(c.Request.Context(), ws)
}

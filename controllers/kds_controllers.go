package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SolomonOP/smart-waiter-system-sub000/kds"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type KDSController struct {
	Hub *kds.Hub
}

func NewKDSController(hub *kds.Hub) *KDSController {
	return &KDSController{Hub: hub}
}

// Stream -> websocket feed of lifecycle events for the kitchen and
// floor displays. ?role= labels the connection for logging only; every
// display sees the full stream.
func (kc *KDSController) Stream(c *gin.Context) {
	role := c.DefaultQuery("role", "display")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	kc.Hub.RegisterClient(ws, role)
	utils.InfoLogger.Printf("KDS client connected (role=%s, clients=%d)", role, kc.Hub.ClientCount())

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.UnregisterClient(ws)
	utils.InfoLogger.Printf("KDS client disconnected (role=%s)", role)
}

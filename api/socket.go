package api

import (
	"net/http"

	"sharebox/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The channel carries no privileged data beyond what the chat
	// already shows everyone, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Socket upgrades the connection and attaches it to the broadcast hub.
func (a *API) Socket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Debug("Socket upgrade failed", zap.Error(err))
		return
	}

	ws.NewClient(a.Hub, conn).Start()
}

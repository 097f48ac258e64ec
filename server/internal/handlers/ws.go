package handlers

import (
	"faceboobs/shared/types"
	"faceboobs/shared/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Wallet-keyed public event stream; origin checks stay with the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket streams the caller's realtime events (likes, comments,
// follows, purchases, messages) over a websocket. The wallet is passed as a
// query parameter because browsers cannot set headers on websocket upgrades.
func (api *API) handleWebsocket(c *gin.Context) {
	wallet := c.Query("wallet")
	if !utils.IsValidAddress(wallet) {
		c.JSON(http.StatusBadRequest, types.Fail("missing or invalid wallet query parameter"))
		return
	}
	wallet = utils.NormalizeAddress(wallet)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.Logger.Warn("Websocket upgrade failed", "wallet", wallet, "error", err.Error())
		return
	}

	eventCh, unsubscribe := api.Hub.Subscribe(wallet)
	api.Logger.Info("Websocket subscriber connected", "wallet", wallet)

	// Reader goroutine: we never expect client frames, but reading is what
	// surfaces the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		unsubscribe()
		conn.Close()
		api.Logger.Info("Websocket subscriber disconnected", "wallet", wallet)
	}()

	for {
		select {
		case event, open := <-eventCh:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

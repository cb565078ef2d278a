package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dricdias/telegram-bot/internal/charts"
	"github.com/dricdias/telegram-bot/internal/utilities"
	"github.com/dricdias/telegram-bot/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetStats returns the dashboard summary.
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.Service.Stats()
	if err != nil {
		abortOrganizerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetChart renders one of the dashboard charts (bar, pie, growth) as PNG.
func (dc *DashboardController) GetChart(c *gin.Context) {
	var (
		png []byte
		err error
	)

	switch kind := c.Param("kind"); kind {
	case "bar", "pie":
		stats, statsErr := dc.Service.Stats()
		if statsErr != nil {
			abortOrganizerError(c, statsErr)
			return
		}
		if kind == "bar" {
			png, err = charts.CategoryBar(stats.PerCategory)
		} else {
			png, err = charts.CategoryPie(stats.PerCategory)
		}
	case "growth":
		series, seriesErr := dc.Service.GrowthSeries()
		if seriesErr != nil {
			abortOrganizerError(c, seriesErr)
			return
		}
		png, err = charts.CategoryGrowth(series)
	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Unknown chart kind"})
		return
	}

	if errors.Is(err, charts.ErrNoData) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{
			Error: "Not enough data to render chart",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// HandleWS upgrades the connection and streams library events to the client.
func (dc *DashboardController) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &ws.Client{Hub: dc.Hub, Conn: conn, Send: make(chan []byte, 64)}
	dc.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

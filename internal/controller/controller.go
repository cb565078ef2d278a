// Package controller provides HTTP handlers for the dashboard API.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/utilities"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// DashboardController handles category, file and stats endpoints.
type DashboardController struct {
	DB      *database.DBinstanceStruct
	Service *organizer.Service
	Hub     *ws.Hub
}

// NewDashboardController creates a new instance of DashboardController
func NewDashboardController(db *database.DBinstanceStruct, svc *organizer.Service, hub *ws.Hub) *DashboardController {
	return &DashboardController{DB: db, Service: svc, Hub: hub}
}

// abortOrganizerError maps organizer sentinel errors onto HTTP statuses.
func abortOrganizerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, organizer.ErrCategoryNotFound),
		errors.Is(err, organizer.ErrFileNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, organizer.ErrFileExists):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, organizer.ErrEmptyName):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
	}
}

func (dc *DashboardController) notify(msgType, category, file string) {
	if dc.Hub != nil {
		dc.Hub.Notify(msgType, category, file)
	}
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dricdias/telegram-bot/internal/utilities"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// GetCategories lists every category.
func (dc *DashboardController) GetCategories(c *gin.Context) {
	cats, err := dc.Service.ListCategories()
	if err != nil {
		abortOrganizerError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory creates a category by name.
func (dc *DashboardController) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	cat, err := dc.Service.CreateCategory(req.Name)
	if err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgCategoryCreated, cat.Name, "")
	c.JSON(http.StatusCreated, cat)
}

// DeleteCategory removes a category with all its files.
func (dc *DashboardController) DeleteCategory(c *gin.Context) {
	name := c.Param("category")
	if err := dc.Service.DeleteCategory(name); err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgCategoryDeleted, name, "")
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Category deleted"})
}

// GetCategoryFiles lists the files of one category.
func (dc *DashboardController) GetCategoryFiles(c *gin.Context) {
	files, err := dc.Service.ListFiles(c.Param("category"))
	if err != nil {
		abortOrganizerError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

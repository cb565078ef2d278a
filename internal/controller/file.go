package controller

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/utilities"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// UploadFile accepts a multipart upload and files it into the category named
// in the path, creating the category when missing, like the bot flow does.
func (dc *DashboardController) UploadFile(c *gin.Context) {
	category := c.Param("category")

	rawFile, err := c.FormFile("file")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close upload: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	saved, err := dc.Service.SaveFile(category, organizer.SaveRequest{
		Name:    rawFile.Filename,
		Kind:    model.KindDocument,
		Tags:    tags,
		Content: fileBytes,
	})
	if err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgFileSaved, category, saved.Name)
	c.JSON(http.StatusCreated, saved)
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

// CreateNote saves plain text as a .txt file in the category.
func (dc *DashboardController) CreateNote(c *gin.Context) {
	category := c.Param("category")

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	saved, err := dc.Service.SaveNote(category, req.Title, req.Content)
	if err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgFileSaved, category, saved.Name)
	c.JSON(http.StatusCreated, saved)
}

// DownloadFile retrieves a file by id and sends it as a downloadable
// attachment in the response.
func (dc *DashboardController) DownloadFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid file id"})
		return
	}

	file, err := dc.Service.GetFileByID(uint(id))
	if err != nil {
		abortOrganizerError(c, err)
		return
	}

	content, err := dc.Service.FileContent(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load file content: %s", err.Error()),
		})
		return
	}

	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+file.Name)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")
	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(content)))
	if _, err := c.Writer.Write(content); err != nil {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to send file content",
			})
		} else {
			c.Abort()
		}
	}
}

type renameRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameFile renames a file within a category.
func (dc *DashboardController) RenameFile(c *gin.Context) {
	category := c.Param("category")
	name := c.Param("file")

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := dc.Service.RenameFile(category, name, req.NewName); err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgFileRenamed, category, req.NewName)
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "File renamed"})
}

// DeleteFile removes a file from a category.
func (dc *DashboardController) DeleteFile(c *gin.Context) {
	category := c.Param("category")
	name := c.Param("file")

	if err := dc.Service.DeleteFile(category, name); err != nil {
		abortOrganizerError(c, err)
		return
	}

	dc.notify(ws.MsgFileDeleted, category, name)
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "File deleted"})
}

// SearchFiles finds files by name across every category.
func (dc *DashboardController) SearchFiles(c *gin.Context) {
	term := c.Query("q")
	if len(term) < 3 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Search term must have at least 3 characters",
		})
		return
	}

	results, err := dc.Service.Search(term)
	if err != nil {
		abortOrganizerError(c, err)
		return
	}

	type result struct {
		Category string           `json:"category"`
		File     model.StoredFile `json:"file"`
	}
	out := make([]result, 0, len(results))
	for _, r := range results {
		out = append(out, result{Category: r.Category, File: r.File})
	}
	c.JSON(http.StatusOK, out)
}

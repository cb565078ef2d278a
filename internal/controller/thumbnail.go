package controller

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"github.com/dricdias/telegram-bot/internal/utilities"
)

const thumbnailWidth = 240

// Thumbnail returns a small JPEG preview of an image file.
func (dc *DashboardController) Thumbnail(c *gin.Context) {
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

	if !file.IsImage() {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("File %s is not an image", file.Name),
		})
		return
	}

	content, err := dc.Service.FileContent(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Cannot decode image: %s", err.Error()),
		})
		return
	}

	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

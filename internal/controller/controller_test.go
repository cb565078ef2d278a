package controller

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/middleware"
	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/storage"
	"github.com/dricdias/telegram-bot/internal/testutil"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// dashboardEngine wires the controller under test behind a stub that injects
// the admin user, bypassing the token middleware.
func dashboardEngine() (*gin.Engine, *organizer.Service) {
	svc := organizer.NewService(testDB, storage.NewMemStore())
	dc := NewDashboardController(testDB, svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", database.TestAdminUser)
	})

	r.GET("/stats", dc.GetStats)
	r.GET("/charts/:kind", dc.GetChart)
	r.GET("/search", dc.SearchFiles)
	r.GET("/categories", dc.GetCategories)
	r.POST("/categories", dc.CreateCategory)
	r.DELETE("/categories/:category", dc.DeleteCategory)
	r.GET("/categories/:category/files", dc.GetCategoryFiles)
	r.POST("/categories/:category/files", middleware.SizeLimit(20<<20), dc.UploadFile)
	r.POST("/categories/:category/notes", dc.CreateNote)
	r.PATCH("/categories/:category/files/:file", dc.RenameFile)
	r.DELETE("/categories/:category/files/:file", dc.DeleteFile)
	r.GET("/files/:id", dc.DownloadFile)
	r.GET("/files/:id/thumbnail", dc.Thumbnail)

	return r, svc
}

func TestCreateAndListCategories(t *testing.T) {
	r, _ := dashboardEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{"name": "api_categoria"}, "", r, "/categories", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "api_categoria", resp["name"])

	req, _ := http.NewRequest(http.MethodGet, "/categories", nil)
	listRec := httptest.NewRecorder()
	r.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), "api_categoria")
}

func TestCreateCategoryMissingName(t *testing.T) {
	r, _ := dashboardEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{}, "", r, "/categories", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadListDownload(t *testing.T) {
	r, _ := dashboardEngine()

	rec, resp := testutil.MakeUploadRequest("upload.txt", []byte("via http"), "", r, "/categories/api_upload/files")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "upload.txt", resp["name"])

	id, ok := resp["ID"].(float64)
	require.True(t, ok, "missing record id in response: %v", resp)

	listReq, _ := http.NewRequest(http.MethodGet, "/categories/api_upload/files", nil)
	listRec := httptest.NewRecorder()
	r.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), "upload.txt")

	dlReq, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/files/%d", int(id)), nil)
	dlRec := httptest.NewRecorder()
	r.ServeHTTP(dlRec, dlReq)
	require.Equal(t, http.StatusOK, dlRec.Code)
	assert.Equal(t, "via http", dlRec.Body.String())
	assert.Contains(t, dlRec.Header().Get("Content-Disposition"), "upload.txt")
}

func TestRenameAndDeleteFile(t *testing.T) {
	r, svc := dashboardEngine()

	_, err := svc.SaveFile("api_mutacao", organizer.SaveRequest{
		Name:    "antes.txt",
		Kind:    model.KindDocument,
		Content: []byte("x"),
	})
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(gin.H{"new_name": "depois.txt"}, "", r,
		"/categories/api_mutacao/files/antes.txt", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	rec, _ = testutil.MakeJSONRequest(nil, "", r,
		"/categories/api_mutacao/files/depois.txt", http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = svc.GetFile("api_mutacao", "depois.txt")
	assert.ErrorIs(t, err, organizer.ErrFileNotFound)
}

func TestRenameMissingFile(t *testing.T) {
	r, _ := dashboardEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{"new_name": "x.txt"}, "", r,
		"/categories/documentos/files/nao_existe.txt", http.MethodPatch)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNote(t *testing.T) {
	r, _ := dashboardEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":   "Reuniao",
		"content": "pauta da semana",
	}, "", r, "/categories/api_notas/notes", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	name, _ := resp["name"].(string)
	assert.Contains(t, name, "Reuniao_")
	assert.Equal(t, model.KindNote, resp["kind"])
}

func TestSearchEndpoint(t *testing.T) {
	r, svc := dashboardEngine()

	_, err := svc.SaveFile("api_busca", organizer.SaveRequest{
		Name:    "manual_impressora.pdf",
		Kind:    model.KindDocument,
		Content: []byte("pdf"),
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/search?q=impressora", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "manual_impressora.pdf")

	// Terms shorter than 3 characters are rejected.
	shortReq, _ := http.NewRequest(http.MethodGet, "/search?q=ab", nil)
	shortRec := httptest.NewRecorder()
	r.ServeHTTP(shortRec, shortReq)
	assert.Equal(t, http.StatusBadRequest, shortRec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r, _ := dashboardEngine()

	req, _ := http.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_categories")
	assert.Contains(t, rec.Body.String(), "per_category")
}

func TestChartEndpoint(t *testing.T) {
	r, svc := dashboardEngine()

	_, err := svc.SaveFile("api_grafico", organizer.SaveRequest{
		Name:    "dado.txt",
		Kind:    model.KindDocument,
		Content: []byte("x"),
	})
	require.NoError(t, err)

	for _, kind := range []string{"bar", "pie", "growth"} {
		req, _ := http.NewRequest(http.MethodGet, "/charts/"+kind, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "chart %s", kind)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	}

	req, _ := http.NewRequest(http.MethodGet, "/charts/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThumbnail(t *testing.T) {
	r, svc := dashboardEngine()

	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for x := 0; x < 320; x++ {
		for y := 0; y < 240; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	saved, err := svc.SaveFile("api_thumb", organizer.SaveRequest{
		Name:    "imagem.png",
		Kind:    model.KindPhoto,
		Content: buf.Bytes(),
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/files/%d/thumbnail", saved.ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	thumb, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 240, thumb.Bounds().Dx())
}

func TestThumbnailNotAnImage(t *testing.T) {
	r, svc := dashboardEngine()

	saved, err := svc.SaveFile("api_thumb", organizer.SaveRequest{
		Name:    "nao_imagem.txt",
		Kind:    model.KindDocument,
		Content: []byte("texto"),
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/files/%d/thumbnail", saved.ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestDeleteCategoryEndpoint(t *testing.T) {
	r, svc := dashboardEngine()

	_, err := svc.SaveFile("api_remocao", organizer.SaveRequest{
		Name:    "x.txt",
		Kind:    model.KindDocument,
		Content: []byte("x"),
	})
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/categories/api_remocao", http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = svc.GetCategory("api_remocao")
	assert.ErrorIs(t, err, organizer.ErrCategoryNotFound)
}

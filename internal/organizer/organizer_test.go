package organizer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/storage"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context) error

func TestMain(m *testing.M) {
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

func newTestService() (*Service, *storage.MemStore) {
	blobs := storage.NewMemStore()
	return NewService(testDB, blobs), blobs
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newTestService()

	cat, err := svc.CreateCategory("trabalho")
	require.NoError(t, err)
	assert.Equal(t, "trabalho", cat.Name)
	assert.NotZero(t, cat.ID)

	// Creating the same category again returns the existing record.
	again, err := svc.CreateCategory("trabalho")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateCategory("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestGetCategoryNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetCategory("nao_existe")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSaveFileAndContent(t *testing.T) {
	svc, blobs := newTestService()

	saved, err := svc.SaveFile("recibos", SaveRequest{
		Name:    "mercado.pdf",
		Kind:    model.KindDocument,
		Content: []byte("conteudo do recibo"),
	})
	require.NoError(t, err)
	assert.Equal(t, "mercado.pdf", saved.Name)
	assert.Equal(t, ".pdf", saved.Extension)
	assert.Equal(t, int64(len("conteudo do recibo")), saved.Size)
	require.NotNil(t, saved.StorageObjectName)
	assert.True(t, strings.HasPrefix(*saved.StorageObjectName, "recibos/"))
	assert.Equal(t, 1, blobs.Len())

	content, err := svc.FileContent(saved)
	require.NoError(t, err)
	assert.Equal(t, []byte("conteudo do recibo"), content)
}

func TestSaveFileKeepsTags(t *testing.T) {
	svc, _ := newTestService()

	saved, err := svc.SaveFile("etiquetas", SaveRequest{
		Name:    "contrato_2025.pdf",
		Kind:    model.KindDocument,
		Tags:    []string{"juridico", "2025"},
		Content: []byte("pdf"),
	})
	require.NoError(t, err)

	loaded, err := svc.GetFile("etiquetas", saved.Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"juridico", "2025"}, []string(loaded.Tags))
}

func TestSaveFileInlineWithoutBlobStore(t *testing.T) {
	svc := NewService(testDB, nil)

	saved, err := svc.SaveFile("inline", SaveRequest{
		Name:    "nota.txt",
		Kind:    model.KindNote,
		Content: []byte("em linha"),
	})
	require.NoError(t, err)
	assert.Nil(t, saved.StorageObjectName)
	assert.Equal(t, []byte("em linha"), saved.Content)

	content, err := svc.FileContent(saved)
	require.NoError(t, err)
	assert.Equal(t, []byte("em linha"), content)
}

func TestSaveFileNameCollision(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.SaveFile("colisao", SaveRequest{
		Name:    "relatorio.txt",
		Kind:    model.KindDocument,
		Content: []byte("v1"),
	})
	require.NoError(t, err)

	second, err := svc.SaveFile("colisao", SaveRequest{
		Name:    "relatorio.txt",
		Kind:    model.KindDocument,
		Content: []byte("v2"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)
	assert.True(t, strings.HasPrefix(second.Name, "relatorio_"))
	assert.True(t, strings.HasSuffix(second.Name, ".txt"))
}

func TestSaveNote(t *testing.T) {
	svc, _ := newTestService()

	saved, err := svc.SaveNote("notas", "Lista de Compras", "arroz, feijao")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.Name, "Lista de Compras_"))
	assert.True(t, strings.HasSuffix(saved.Name, ".txt"))
	assert.Equal(t, model.KindNote, saved.Kind)

	content, err := svc.FileContent(saved)
	require.NoError(t, err)
	assert.Equal(t, "arroz, feijao", string(content))
}

func TestSaveNoteSanitizesTitle(t *testing.T) {
	svc, _ := newTestService()

	saved, err := svc.SaveNote("notas", "a/b\\c", "x")
	require.NoError(t, err)
	assert.NotContains(t, saved.Name, "/")
	assert.NotContains(t, saved.Name, "\\")
}

func TestListFiles(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("listagem", SaveRequest{Name: "b.txt", Kind: model.KindDocument, Content: []byte("b")})
	require.NoError(t, err)
	_, err = svc.SaveFile("listagem", SaveRequest{Name: "a.txt", Kind: model.KindDocument, Content: []byte("a")})
	require.NoError(t, err)

	files, err := svc.ListFiles("listagem")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)
}

func TestListFilesUnknownCategory(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListFiles("fantasma")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("busca", SaveRequest{
		Name:    "Orcamento_Q3.xlsx",
		Kind:    model.KindDocument,
		Content: []byte("planilha"),
	})
	require.NoError(t, err)

	results, err := svc.Search("ORCAMENTO")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "busca", results[0].Category)
	assert.Equal(t, "Orcamento_Q3.xlsx", results[0].File.Name)

	none, err := svc.Search("zzz_nao_existe")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("curinga", SaveRequest{
		Name:    "desconto_100%.txt",
		Kind:    model.KindDocument,
		Content: []byte("x"),
	})
	require.NoError(t, err)
	_, err = svc.SaveFile("curinga", SaveRequest{
		Name:    "precos.txt",
		Kind:    model.KindDocument,
		Content: []byte("y"),
	})
	require.NoError(t, err)

	// "%" must match the literal character, not everything.
	results, err := svc.Search("100%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "desconto_100%.txt", results[0].File.Name)

	// Same for "_": no file contains three consecutive underscores.
	none, err := svc.Search("___")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRenameFile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("renomear", SaveRequest{Name: "velho.txt", Kind: model.KindDocument, Content: []byte("x")})
	require.NoError(t, err)

	require.NoError(t, svc.RenameFile("renomear", "velho.txt", "novo.txt"))

	_, err = svc.GetFile("renomear", "velho.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)

	renamed, err := svc.GetFile("renomear", "novo.txt")
	require.NoError(t, err)
	assert.Equal(t, ".txt", renamed.Extension)
}

func TestRenameFileTargetTaken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("renomear2", SaveRequest{Name: "um.txt", Kind: model.KindDocument, Content: []byte("1")})
	require.NoError(t, err)
	_, err = svc.SaveFile("renomear2", SaveRequest{Name: "dois.txt", Kind: model.KindDocument, Content: []byte("2")})
	require.NoError(t, err)

	err = svc.RenameFile("renomear2", "um.txt", "dois.txt")
	assert.ErrorIs(t, err, ErrFileExists)
}

func TestDeleteFile(t *testing.T) {
	svc, blobs := newTestService()

	_, err := svc.SaveFile("excluir", SaveRequest{Name: "lixo.txt", Kind: model.KindDocument, Content: []byte("x")})
	require.NoError(t, err)
	require.Equal(t, 1, blobs.Len())

	require.NoError(t, svc.DeleteFile("excluir", "lixo.txt"))
	assert.Equal(t, 0, blobs.Len())

	_, err = svc.GetFile("excluir", "lixo.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteCategoryDropsFilesAndBlobs(t *testing.T) {
	svc, blobs := newTestService()

	_, err := svc.SaveFile("temporaria", SaveRequest{Name: "um.txt", Kind: model.KindDocument, Content: []byte("1")})
	require.NoError(t, err)
	_, err = svc.SaveFile("temporaria", SaveRequest{Name: "dois.txt", Kind: model.KindDocument, Content: []byte("2")})
	require.NoError(t, err)
	require.Equal(t, 2, blobs.Len())

	require.NoError(t, svc.DeleteCategory("temporaria"))
	assert.Equal(t, 0, blobs.Len())

	_, err = svc.GetCategory("temporaria")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryAllowsRecreate(t *testing.T) {
	svc, blobs := newTestService()

	_, err := svc.SaveFile("reciclada", SaveRequest{Name: "antigo.txt", Kind: model.KindDocument, Content: []byte("v1")})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory("reciclada"))

	// The name must be reusable right away.
	cat, err := svc.CreateCategory("reciclada")
	require.NoError(t, err)

	saved, err := svc.SaveFile("reciclada", SaveRequest{Name: "novo.txt", Kind: model.KindDocument, Content: []byte("v2")})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, saved.CategoryID)
	assert.Equal(t, 1, blobs.Len())

	// Old files must not resurface in the recreated category.
	files, err := svc.ListFiles("reciclada")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "novo.txt", files[0].Name)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("estatisticas", SaveRequest{Name: "a.txt", Kind: model.KindDocument, Content: []byte("a")})
	require.NoError(t, err)
	_, err = svc.SaveFile("estatisticas", SaveRequest{Name: "b.txt", Kind: model.KindDocument, Content: []byte("b")})
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalCategories, 1)
	assert.GreaterOrEqual(t, stats.TotalFiles, 2)

	var found *CategoryCount
	for i := range stats.PerCategory {
		if stats.PerCategory[i].Name == "estatisticas" {
			found = &stats.PerCategory[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Count)
}

func TestGrowthSeries(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SaveFile("crescimento", SaveRequest{Name: "a.txt", Kind: model.KindDocument, Content: []byte("a")})
	require.NoError(t, err)
	_, err = svc.SaveFile("crescimento", SaveRequest{Name: "b.txt", Kind: model.KindDocument, Content: []byte("b")})
	require.NoError(t, err)

	series, err := svc.GrowthSeries()
	require.NoError(t, err)

	var found *CategorySeries
	for i := range series {
		if series[i].Name == "crescimento" {
			found = &series[i]
		}
	}
	require.NotNil(t, found)
	require.NotEmpty(t, found.Points)
	// Cumulative: the last point carries the full count.
	assert.Equal(t, 2, found.Points[len(found.Points)-1].Count)
}

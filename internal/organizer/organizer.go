// Package organizer implements the category and file bookkeeping behind both
// the Telegram bot and the web dashboard.
package organizer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/storage"
)

// Sentinel errors mapped to chat replies and HTTP statuses by the callers.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileExists       = errors.New("file already exists")
	ErrEmptyName        = errors.New("name must not be empty")
)

// Service wires the relational metadata store to the blob store. A nil Blobs
// keeps payloads inline in the database.
type Service struct {
	DB    *database.DBinstanceStruct
	Blobs storage.BlobStore
}

// NewService constructs a Service.
func NewService(db *database.DBinstanceStruct, blobs storage.BlobStore) *Service {
	return &Service{DB: db, Blobs: blobs}
}

// SaveRequest carries an incoming payload to be filed into a category.
type SaveRequest struct {
	Name           string
	Kind           string
	TelegramFileID string
	Tags           []string
	Content        []byte
}

// CreateCategory returns the category with the given name, creating it first
// if needed. Mirrors the original behavior where selecting a category creates
// its directory.
func (s *Service) CreateCategory(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	var cat model.Category
	err := s.DB.Where("name = ?", name).FirstOrCreate(&cat, model.Category{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategory looks a category up by name.
func (s *Service) GetCategory(name string) (*model.Category, error) {
	var cat model.Category
	if err := s.DB.Where("name = ?", name).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// ListCategories returns every category ordered by name.
func (s *Service) ListCategories() ([]model.Category, error) {
	var cats []model.Category
	if err := s.DB.Order("name").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// DeleteCategory removes a category together with its file records and blobs.
// Records are hard-deleted: a soft-deleted row would keep the name in the
// unique index and block recreating the category.
func (s *Service) DeleteCategory(name string) error {
	cat, err := s.GetCategory(name)
	if err != nil {
		return err
	}

	if pd, ok := s.Blobs.(storage.PrefixDeleter); ok {
		if err := pd.DeletePrefix(cat.Name); err != nil {
			return err
		}
	} else {
		files, err := s.ListFiles(name)
		if err != nil {
			return err
		}
		for i := range files {
			if err := s.dropPayload(&files[i]); err != nil {
				return err
			}
		}
	}

	if err := s.DB.Unscoped().Where("category_id = ?", cat.ID).Delete(&model.StoredFile{}).Error; err != nil {
		return err
	}
	return s.DB.Unscoped().Delete(cat).Error
}

// ListFiles returns the files of a category ordered by name. The category must
// exist.
func (s *Service) ListFiles(category string) ([]model.StoredFile, error) {
	cat, err := s.GetCategory(category)
	if err != nil {
		return nil, err
	}

	var files []model.StoredFile
	if err := s.DB.Where("category_id = ?", cat.ID).Order("name").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// GetFile returns a single file record by category and display name.
func (s *Service) GetFile(category, name string) (*model.StoredFile, error) {
	cat, err := s.GetCategory(category)
	if err != nil {
		return nil, err
	}

	var file model.StoredFile
	err = s.DB.Where("category_id = ? AND name = ?", cat.ID, name).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// GetFileByID returns a single file record by primary key.
func (s *Service) GetFileByID(id uint) (*model.StoredFile, error) {
	var file model.StoredFile
	if err := s.DB.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// SaveFile files the payload into the named category, creating the category if
// it does not exist yet. When the display name is already taken a timestamp
// suffix is inserted before the extension, like the original bot does.
func (s *Service) SaveFile(category string, req SaveRequest) (*model.StoredFile, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	cat, err := s.CreateCategory(category)
	if err != nil {
		return nil, err
	}

	name, err := s.uniqueName(cat.ID, req.Name)
	if err != nil {
		return nil, err
	}

	file := &model.StoredFile{
		Name:           name,
		Extension:      strings.ToLower(filepath.Ext(name)),
		Kind:           req.Kind,
		Size:           int64(len(req.Content)),
		TelegramFileID: req.TelegramFileID,
		Tags:           pq.StringArray(req.Tags),
		CategoryID:     cat.ID,
	}

	if err := s.persistPayload(file, cat.Name, req.Content); err != nil {
		return nil, err
	}

	if err := s.DB.Create(file).Error; err != nil {
		// Don't leak the blob if the record never made it in.
		_ = s.dropPayload(file)
		return nil, err
	}
	return file, nil
}

// SaveNote files plain text as a .txt file in the named category.
func (s *Service) SaveNote(category, title, content string) (*model.StoredFile, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "nota"
	}
	title = strings.NewReplacer("/", "_", "\\", "_").Replace(title)

	name := fmt.Sprintf("%s_%s.txt", title, time.Now().Format("20060102_150405"))
	return s.SaveFile(category, SaveRequest{
		Name:    name,
		Kind:    model.KindNote,
		Content: []byte(content),
	})
}

// SearchResult pairs a matching file with the category holding it.
type SearchResult struct {
	Category string
	File     model.StoredFile
}

// Search finds files whose display name contains the term, case-insensitively,
// across all categories.
func (s *Service) Search(term string) ([]SearchResult, error) {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return nil, ErrEmptyName
	}

	type row struct {
		model.StoredFile
		CategoryName string
	}
	var rows []row
	err := s.DB.Model(&model.StoredFile{}).
		Select("stored_files.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = stored_files.category_id AND categories.deleted_at IS NULL").
		Where("LOWER(stored_files.name) LIKE ?", "%"+escapeLike(term)+"%").
		Order("categories.name, stored_files.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, SearchResult{Category: r.CategoryName, File: r.StoredFile})
	}
	return results, nil
}

// escapeLike neutralizes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// RenameFile renames a file within its category. The target name must be free.
func (s *Service) RenameFile(category, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	file, err := s.GetFile(category, oldName)
	if err != nil {
		return err
	}

	var count int64
	if err := s.DB.Model(&model.StoredFile{}).
		Where("category_id = ? AND name = ?", file.CategoryID, newName).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrFileExists
	}

	file.Name = newName
	file.Extension = strings.ToLower(filepath.Ext(newName))
	return s.DB.Save(file).Error
}

// DeleteFile removes a file record and its payload.
func (s *Service) DeleteFile(category, name string) error {
	file, err := s.GetFile(category, name)
	if err != nil {
		return err
	}

	if err := s.dropPayload(file); err != nil {
		return err
	}
	return s.DB.Delete(file).Error
}

// FileContent loads the raw payload of a file, wherever it lives.
func (s *Service) FileContent(file *model.StoredFile) ([]byte, error) {
	if file.StorageObjectName == nil {
		return file.Content, nil
	}
	if s.Blobs == nil {
		return nil, fmt.Errorf("blob store is disabled while file %d is stored remotely", file.ID)
	}

	reader, _, err := s.Blobs.DownloadFile(*file.StorageObjectName)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (s *Service) persistPayload(file *model.StoredFile, category string, content []byte) error {
	if s.Blobs == nil {
		file.Content = content
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", category, uuid.NewString(), file.Extension)
	if err := s.Blobs.UploadFile(objectName, bytes.NewReader(content)); err != nil {
		return err
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}

func (s *Service) dropPayload(file *model.StoredFile) error {
	if file.StorageObjectName == nil || s.Blobs == nil {
		return nil
	}
	return s.Blobs.DeleteFile(*file.StorageObjectName)
}

// uniqueName appends a timestamp suffix when the display name is taken.
func (s *Service) uniqueName(categoryID uint, name string) (string, error) {
	var count int64
	if err := s.DB.Model(&model.StoredFile{}).
		Where("category_id = ? AND name = ?", categoryID, name).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return name, nil
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext), nil
}

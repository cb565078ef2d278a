package model

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// File kinds, mirroring what the bot accepts from Telegram.
const (
	KindDocument = "document"
	KindPhoto    = "photo"
	KindVideo    = "video"
	KindAudio    = "audio"
	KindVoice    = "voice"
	KindNote     = "note"
)

// StoredFile represents a file saved into a category. The payload lives either
// inline in Content or in the blob store under StorageObjectName, never both.
type StoredFile struct {
	gorm.Model
	Name              string         `gorm:"index" json:"name"`
	Extension         string         `json:"extension"`
	Kind              string         `json:"kind"`
	Size              int64          `json:"size"`
	TelegramFileID    string         `json:"-"`
	Tags              pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Content           []byte         `json:"-"`
	StorageObjectName *string        `json:"-"`
	CategoryID        uint           `gorm:"index" json:"category_id"`
}

// IsImage reports whether the file should be previewed as a picture.
func (f *StoredFile) IsImage() bool {
	switch f.Extension {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp":
		return true
	}
	return false
}

// Package model contain gorm model for recording data to database
package model

import "gorm.io/gorm"

// Category is a named bucket that groups stored files. A category must exist
// before files can be saved into it.
type Category struct {
	gorm.Model
	Name  string       `gorm:"uniqueIndex" json:"name"`
	Files []StoredFile `gorm:"constraint:OnDelete:CASCADE" json:"files,omitempty"`
}

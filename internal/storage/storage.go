// Package storage holds file payloads outside the relational database.
package storage

import "io"

// BlobStore persists raw file contents keyed by object name. A nil BlobStore
// means payloads are kept inline in the database instead.
type BlobStore interface {
	UploadFile(objectName string, data io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
	DeleteFile(objectName string) error
	Close() error
}

// PrefixDeleter is implemented by backends that can drop every object under a
// prefix in one call, used when a whole category is removed.
type PrefixDeleter interface {
	DeletePrefix(prefix string) error
}

package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps blobs in an embedded badger database. It is the default
// backend: the bot runs on a single host and needs no external service.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func blobKey(objectName string) []byte {
	return []byte("blob:" + objectName)
}

// UploadFile stores the reader's contents under objectName, replacing any
// previous value.
func (s *BadgerStore) UploadFile(objectName string, data io.Reader) error {
	payload, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("read blob payload: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey(objectName), payload)
	})
}

// DownloadFile returns a reader over the stored blob and its size.
func (s *BadgerStore) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	var payload []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(objectName))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("object %q not found", objectName)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			payload = make([]byte, len(val))
			copy(payload, val)
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}

	return io.NopCloser(bytes.NewReader(payload)), int64(len(payload)), nil
}

// DeleteFile removes the blob stored under objectName. Deleting a missing
// object is not an error.
func (s *BadgerStore) DeleteFile(objectName string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blobKey(objectName))
	})
}

// Close closes the underlying badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

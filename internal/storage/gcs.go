package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageClient stores blobs in a Google Cloud Storage bucket. Selected
// with BLOB_BACKEND=gcs for deployments that should not keep payloads on disk.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient builds a client using application default credentials.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// UploadFile writes the reader's contents to the named object.
func (c *CloudStorageClient) UploadFile(objectName string, data io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, data); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// DownloadFile opens a reader over the named object.
func (c *CloudStorageClient) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)

	attrs, err := obj.Attrs(c.Ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat object: %v", err)
	}

	reader, err := obj.NewReader(c.Ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %v", err)
	}
	return reader, attrs.Size, nil
}

// DeleteFile removes the named object.
func (c *CloudStorageClient) DeleteFile(objectName string) error {
	bucket := c.Client.Bucket(c.BucketName)
	if err := bucket.Object(objectName).Delete(c.Ctx); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

// DeletePrefix removes every object under the given prefix. Used when a whole
// category is dropped.
func (c *CloudStorageClient) DeletePrefix(prefix string) error {
	bucket := c.Client.Bucket(c.BucketName)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	it := bucket.Objects(c.Ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects: %v", err)
		}
		if err := bucket.Object(attrs.Name).Delete(c.Ctx); err != nil {
			return fmt.Errorf("failed to delete object %s: %v", attrs.Name, err)
		}
	}
	return nil
}

// Close closes the underlying client.
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}

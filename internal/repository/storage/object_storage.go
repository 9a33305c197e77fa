package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage stores receipt images. Objects are private; readers get
// short-lived presigned URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// ReceiptObjectPath creates a unique object key for a receipt variant:
// trips/{tripID}/expenses/{expenseID}/{uuid}_{variant}.jpg
func ReceiptObjectPath(tripID, expenseID int32, variant string) string {
	filename := fmt.Sprintf("%s_%s.jpg", uuid.New().String(), variant)
	return path.Join("trips", fmt.Sprintf("%d", tripID), "expenses", fmt.Sprintf("%d", expenseID), filename)
}

// VariantPath derives the object key of another variant from a stored key.
// Receipts are stored under their display key; the thumbnail shares the
// same uuid prefix.
func VariantPath(objectPath, fromVariant, toVariant string) string {
	dir, file := path.Split(objectPath)
	suffix := "_" + fromVariant + ".jpg"
	if len(file) <= len(suffix) || file[len(file)-len(suffix):] != suffix {
		return ""
	}
	return dir + file[:len(file)-len(suffix)] + "_" + toVariant + ".jpg"
}

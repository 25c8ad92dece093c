package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
)

// TermsArchive writes every terms document to a GCS bucket as JSON.
type TermsArchive struct {
	client *storage.Client
	bucket string
}

func NewTermsArchive(client *storage.Client, bucket string) *TermsArchive {
	return &TermsArchive{client: client, bucket: bucket}
}

// ObjectPath is the object name of a terms document inside the bucket.
func ObjectPath(t *entity.Terms) string {
	return fmt.Sprintf("terms/v%d-%s.json", t.Version, t.ID)
}

func (a *TermsArchive) Archive(ctx context.Context, t *entity.Terms) (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return helpers.UploadObject(ctx, a.client, a.bucket, ObjectPath(t), "application/json", bytes.NewReader(b))
}

// Package archive copies domain events to Google Cloud Storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-identity-service/internal/application"
	"github.com/oksasatya/go-identity-service/internal/domain/event"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

// GCSEventArchive writes each event as one JSON object.
type GCSEventArchive struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSEventArchive(client *storage.Client, bucket, prefix string) *GCSEventArchive {
	return &GCSEventArchive{client: client, bucket: bucket, prefix: prefix}
}

func (a *GCSEventArchive) Archive(ctx context.Context, e event.DomainEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = helpers.UploadObject(ctx, a.client, a.bucket, ObjectPath(a.prefix, e), "application/json", bytes.NewReader(b))
	return err
}

// ObjectPath lays events out as <prefix>/<type>/<yyyy>/<mm>/<dd>/<id>.json.
func ObjectPath(prefix string, e event.DomainEvent) string {
	return path.Join(prefix, string(e.Type), e.OccurredAt.UTC().Format("2006/01/02"), e.ID.String()+".json")
}

var _ application.EventArchiver = (*GCSEventArchive)(nil)

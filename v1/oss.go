package builder

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ObjectStoreConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Secure          bool
}

func NewObjectStore(config ObjectStoreConfig) (*minio.Client, error) {
	if config.Endpoint == "" {
		return nil, errors.New("object storage endpoint is required")
	}
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create object storage client")
	}
	return client, nil
}

// ParseObjectLocation splits "s3://bucket/key". ok is false for anything else.
func ParseObjectLocation(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// OpenCatalogue loads a catalogue from a local path or from an s3:// location.
func OpenCatalogue(ctx context.Context, location string, client *minio.Client) (*Catalogue, error) {
	bucket, key, ok := ParseObjectLocation(location)
	if !ok {
		return LoadCatalogueFile(location)
	}
	if client == nil {
		return nil, errors.Newf("object storage is not configured for %s", location)
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %s", location)
	}
	defer func() { _ = obj.Close() }()

	c, err := DecodeCatalogue(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "load catalogue %s", location)
	}
	return c, nil
}

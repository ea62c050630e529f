// Package feed implements the supplier feed source on top of a blob bucket.
// The bucket URL decides the backend: file:// in development, gs:// or s3://
// in deployments, all through the same gocloud.dev driver surface.
package feed

import (
	"context"

	"bazaar/config"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/lifecycle"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
}

// blobFeedService reads feed files from a blob bucket and decodes them.
type blobFeedService struct {
	bucket *blob.Bucket
}

// New opens the configured feed bucket and returns it as a service.FeedService.
func New(params Params) (service.FeedService, error) {
	if params.Config.Feeds == nil || params.Config.Feeds.BucketURL == "" {
		return nil, errors.New("feeds.bucketUrl must be configured")
	}

	openCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, params.Config.Feeds.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open feed bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobFeedService{bucket: bucket}, nil
}

// Fetch reads one feed file from the bucket and decodes it.
func (s *blobFeedService) Fetch(ctx context.Context, fileName string) (*service.FeedFile, error) {
	raw, err := s.bucket.ReadAll(ctx, fileName)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, domainerrors.ErrFeedNotFound.WrapMessage(fileName)
		}

		return nil, errors.Wrap(err, "failed to read feed file")
	}

	return Parse(raw)
}

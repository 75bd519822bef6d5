package pickups

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Service loads datasets from the remote source or uploads and memoizes them.
type Service struct {
	cache           *Cache
	remote          Source
	timestampColumn string
}

// NewService creates a new Service reading the remote source through remote.
func NewService(cache *Cache, remote Source, timestampColumn string) *Service {
	return &Service{
		cache:           cache,
		remote:          remote,
		timestampColumn: timestampColumn,
	}
}

// Load returns the remote dataset bounded by rowLimit, fetching it only on the first
// call for that limit.
func (s *Service) Load(ctx context.Context, rowLimit int) (*Dataset, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("%w: no remote source configured", ErrDataFetch)
	}
	return s.load(ctx, RemoteKey(rowLimit), s.remote, rowLimit)
}

// LoadUpload returns the dataset of an uploaded file. Files with identical content
// share one cache entry.
func (s *Service) LoadUpload(ctx context.Context, upload UploadSource) (*Dataset, error) {
	return s.load(ctx, UploadKey(upload.Digest()), upload, 0)
}

// Cached returns a dataset previously loaded under key.
func (s *Service) Cached(key string) (*Dataset, bool) {
	return s.cache.Get(key)
}

func (s *Service) load(ctx context.Context, key string, src Source, rowLimit int) (*Dataset, error) {
	ds, hit, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (*Dataset, error) {
		start := time.Now()
		log.Printf("INFO: loading dataset %s from %s", key, src.Name())

		body, err := src.Open(ctx)
		if err != nil {
			return nil, err
		}
		defer body.Close()

		rows, err := ReadCSV(body, rowLimit)
		if err != nil {
			return nil, err
		}
		ds, err := Normalize(key, src.Name(), rows, s.timestampColumn)
		if err != nil {
			return nil, err
		}

		log.Printf("INFO: loaded dataset %s: %d records in %s", key, ds.Len(), time.Since(start).Round(time.Millisecond))
		return ds, nil
	})
	if err != nil {
		log.Printf("ERROR: load %s failed: %v", key, err)
		return nil, err
	}
	if hit {
		log.Printf("DEBUG: dataset %s served from cache", key)
	}
	return ds, nil
}

package enrichment

import (
	"context"
	"sync"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// DefaultBatchCeiling is the upstream API's documented per-request limit.
const DefaultBatchCeiling = 10

// FieldsFetcher is the upstream primitive: given at most one batch ceiling's
// worth of internal ids, return the extra fields per id. The caller class
// selects which of the two upstream query roots is addressed.
type FieldsFetcher interface {
	BatchOrderFields(ctx context.Context, ids []string, class order.CallerClass) (order.EnrichmentMap, error)
}

// ProgressFunc receives a fresh snapshot of the accumulated map after every
// settled request. Snapshots only grow; keys are never removed.
type ProgressFunc func(order.EnrichmentMap)

// Service attaches ERP extra fields to pages of orders that were listed
// without them, chunking requests under the upstream batch ceiling.
type Service struct {
	fetcher FieldsFetcher
	ceiling int
	log     logger.Logger
}

func NewService(fetcher FieldsFetcher, ceiling int, log logger.Logger) *Service {
	if ceiling <= 0 {
		ceiling = DefaultBatchCeiling
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		ceiling: ceiling,
		log:     log,
	}
}

// FetchBatch resolves extra fields for a page of ids. All chunks fly
// concurrently; a failed chunk is logged and its ids are simply absent from
// the result. The call itself never fails: partial data beats no page.
func (s *Service) FetchBatch(ctx context.Context, ids []string, class order.CallerClass) order.EnrichmentMap {
	merged := make(order.EnrichmentMap, len(ids))
	if len(ids) == 0 {
		return merged
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, chunk := range chunkIDs(ids, s.ceiling) {
		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()

			part, err := s.fetcher.BatchOrderFields(ctx, chunk, class)
			if err != nil {
				s.log.Warn("order fields chunk failed",
					logger.Strings("ids", chunk),
					logger.Error(err),
				)
				return
			}

			mu.Lock()
			for id, fields := range part {
				merged[id] = fields
			}
			mu.Unlock()
		}(chunk)
	}

	wg.Wait()
	return merged
}

// FetchProgressive issues one request per id so a list view can swap row
// placeholders for data as each arrives. Every requested id ends up in the
// final map, empty on failure, and onProgress sees a growing snapshot after
// each settle. Returns once all requests have settled.
func (s *Service) FetchProgressive(ctx context.Context, ids []string, class order.CallerClass, onProgress ProgressFunc) order.EnrichmentMap {
	acc := make(order.EnrichmentMap, len(ids))
	if len(ids) == 0 {
		if onProgress != nil {
			onProgress(acc.Clone())
		}
		return acc
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			fields := []order.ExternalField{}
			part, err := s.fetcher.BatchOrderFields(ctx, []string{id}, class)
			if err != nil {
				s.log.Warn("order fields fetch failed",
					logger.String("id", id),
					logger.Error(err),
				)
			} else if got, ok := part[id]; ok && got != nil {
				fields = got
			}

			// Settle and snapshot under one lock so callbacks observe
			// strictly growing maps in a consistent order.
			mu.Lock()
			acc[id] = fields
			if onProgress != nil {
				onProgress(acc.Clone())
			}
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return acc
}

func chunkIDs(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// MockFieldsFetcher is a mock for the FieldsFetcher interface
type MockFieldsFetcher struct {
	mock.Mock
}

func (m *MockFieldsFetcher) BatchOrderFields(ctx context.Context, ids []string, class order.CallerClass) (order.EnrichmentMap, error) {
	args := m.Called(ctx, ids, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(order.EnrichmentMap), args.Error(1)
}

func makeIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("%d", i))
	}
	return ids
}

func fieldsFor(ids []string) order.EnrichmentMap {
	m := make(order.EnrichmentMap, len(ids))
	for _, id := range ids {
		m[id] = []order.ExternalField{
			{Name: order.FieldERPOrderNumber, Value: "SO-" + id},
		}
	}
	return m
}

func TestService_FetchBatch_EmptyInput(t *testing.T) {
	// Arrange
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())

	// Act
	got := svc.FetchBatch(context.Background(), nil, order.CompanyScoped)

	// Assert
	assert.Empty(t, got)
	fetcher.AssertNotCalled(t, "BatchOrderFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FetchBatch_ChunksAtCeiling(t *testing.T) {
	// Arrange: 25 ids with ceiling 10 must become exactly 3 requests
	// of sizes 10, 10 and 5.
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(25)

	for _, chunk := range [][]string{ids[0:10], ids[10:20], ids[20:25]} {
		fetcher.On("BatchOrderFields", mock.Anything, chunk, order.CompanyScoped).
			Return(fieldsFor(chunk), nil).Once()
	}

	// Act
	got := svc.FetchBatch(context.Background(), ids, order.CompanyScoped)

	// Assert
	require.Len(t, got, 25)
	for _, id := range ids {
		assert.Equal(t, "SO-"+id, order.ExtraFieldSet{List: got[id]}.ERPOrderNumber())
	}
	fetcher.AssertExpectations(t)
	assert.Len(t, fetcher.Calls, 3)
}

func TestService_FetchBatch_TwoChunksExactBoundary(t *testing.T) {
	// Arrange: 15 ids, ceiling 10 -> first request ids 1-10, second 11-15.
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(15)

	fetcher.On("BatchOrderFields", mock.Anything, ids[0:10], order.CompanyScoped).
		Return(fieldsFor(ids[0:10]), nil).Once()
	fetcher.On("BatchOrderFields", mock.Anything, ids[10:15], order.CompanyScoped).
		Return(fieldsFor(ids[10:15]), nil).Once()

	// Act
	got := svc.FetchBatch(context.Background(), ids, order.CompanyScoped)

	// Assert
	require.Len(t, got, 15)
	assert.Len(t, fetcher.Calls, 2)
	for _, id := range ids {
		require.Contains(t, got, id)
		assert.Equal(t, fieldsFor([]string{id})[id], got[id])
	}
	fetcher.AssertExpectations(t)
}

func TestService_FetchBatch_PartialFailure(t *testing.T) {
	// Arrange: one of three chunks rejects; the call must still resolve with
	// the union of the successful chunks.
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(25)

	fetcher.On("BatchOrderFields", mock.Anything, ids[0:10], order.CompanyScoped).
		Return(fieldsFor(ids[0:10]), nil).Once()
	fetcher.On("BatchOrderFields", mock.Anything, ids[10:20], order.CompanyScoped).
		Return(nil, errors.New("upstream 502")).Once()
	fetcher.On("BatchOrderFields", mock.Anything, ids[20:25], order.CompanyScoped).
		Return(fieldsFor(ids[20:25]), nil).Once()

	// Act
	got := svc.FetchBatch(context.Background(), ids, order.CompanyScoped)

	// Assert
	assert.Len(t, got, 15)
	for _, id := range ids[10:20] {
		assert.NotContains(t, got, id)
	}
	fetcher.AssertExpectations(t)
}

func TestService_FetchBatch_AllChunksFail(t *testing.T) {
	// Arrange
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(5)

	fetcher.On("BatchOrderFields", mock.Anything, ids, order.SelfServiceScoped).
		Return(nil, errors.New("upstream down")).Once()

	// Act
	got := svc.FetchBatch(context.Background(), ids, order.SelfServiceScoped)

	// Assert
	assert.NotNil(t, got)
	assert.Empty(t, got)
	fetcher.AssertExpectations(t)
}

func TestService_FetchProgressive_EmptyInput(t *testing.T) {
	// Arrange
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())

	var snapshots []order.EnrichmentMap

	// Act
	got := svc.FetchProgressive(context.Background(), nil, order.CompanyScoped, func(m order.EnrichmentMap) {
		snapshots = append(snapshots, m)
	})

	// Assert: one empty progress call, empty result, no network.
	assert.Empty(t, got)
	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0])
	fetcher.AssertNotCalled(t, "BatchOrderFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_FetchProgressive_CompleteAndMonotonic(t *testing.T) {
	// Arrange: 6 ids, two of which fail. Every id must settle, snapshots
	// must only ever grow.
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(6)

	for _, id := range ids {
		if id == "2" || id == "5" {
			fetcher.On("BatchOrderFields", mock.Anything, []string{id}, order.CompanyScoped).
				Return(nil, errors.New("timeout")).Once()
			continue
		}
		fetcher.On("BatchOrderFields", mock.Anything, []string{id}, order.CompanyScoped).
			Return(fieldsFor([]string{id}), nil).Once()
	}

	// onProgress runs under the accumulator lock, so plain append is safe.
	var snapshots []order.EnrichmentMap

	// Act
	got := svc.FetchProgressive(context.Background(), ids, order.CompanyScoped, func(m order.EnrichmentMap) {
		snapshots = append(snapshots, m)
	})

	// Assert: completeness.
	require.Len(t, got, 6)
	assert.Empty(t, got["2"])
	assert.Empty(t, got["5"])
	assert.NotEmpty(t, got["1"])

	// One snapshot per settled request, each a superset of the previous.
	require.Len(t, snapshots, 6)
	for i := 1; i < len(snapshots); i++ {
		assert.Len(t, snapshots[i], i+1)
		for id := range snapshots[i-1] {
			assert.Contains(t, snapshots[i], id)
		}
	}
	fetcher.AssertExpectations(t)
}

func TestService_FetchProgressive_NilCallback(t *testing.T) {
	// Arrange
	fetcher := new(MockFieldsFetcher)
	svc := NewService(fetcher, 10, logger.NewNop())
	ids := makeIDs(2)

	for _, id := range ids {
		fetcher.On("BatchOrderFields", mock.Anything, []string{id}, order.CompanyScoped).
			Return(fieldsFor([]string{id}), nil).Once()
	}

	// Act / Assert: no callback is fine.
	assert.NotPanics(t, func() {
		got := svc.FetchProgressive(context.Background(), ids, order.CompanyScoped, nil)
		assert.Len(t, got, 2)
	})
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		size  int
		want  []int // chunk sizes
	}{
		{name: "exact multiple", n: 20, size: 10, want: []int{10, 10}},
		{name: "remainder", n: 25, size: 10, want: []int{10, 10, 5}},
		{name: "under ceiling", n: 3, size: 10, want: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(makeIDs(tt.n), tt.size)
			require.Len(t, chunks, len(tt.want))
			for i, w := range tt.want {
				assert.Len(t, chunks[i], w)
			}
		})
	}
}

package company

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// MockDirectory is a mock for the Directory interface
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CompanyName(ctx context.Context, companyID string) (string, error) {
	args := m.Called(ctx, companyID)
	return args.String(0), args.Error(1)
}

func TestCache_GetOne_SecondCallServedFromMemory(t *testing.T) {
	// Arrange
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "42").Return("Acme Industrial", nil).Once()

	// Act
	first, err1 := cache.GetOne(context.Background(), "42")
	second, err2 := cache.GetOne(context.Background(), "42")

	// Assert: exactly one network call, identical results.
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "Acme Industrial", first)
	assert.Equal(t, first, second)
	dir.AssertExpectations(t)
	assert.Len(t, dir.Calls, 1)
}

func TestCache_GetOne_EmptyNameIsCached(t *testing.T) {
	// Arrange: a blank name is a real answer, not a miss to retry.
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "7").Return("", nil).Once()

	// Act
	_, _ = cache.GetOne(context.Background(), "7")
	name, err := cache.GetOne(context.Background(), "7")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "", name)
	assert.Len(t, dir.Calls, 1)
}

func TestCache_GetOne_FailureDoesNotPoison(t *testing.T) {
	// Arrange: first lookup fails, second succeeds.
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "9").Return("", errors.New("503")).Once()
	dir.On("CompanyName", mock.Anything, "9").Return("Globex", nil).Once()

	// Act
	_, err1 := cache.GetOne(context.Background(), "9")
	name, err2 := cache.GetOne(context.Background(), "9")

	// Assert
	assert.Error(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "Globex", name)
	dir.AssertExpectations(t)
}

func TestCache_GetMany_PartitionsCachedAndUncached(t *testing.T) {
	// Arrange: "1" is already cached; only "2" and "3" hit the network.
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "1").Return("One Co", nil).Once()
	_, err := cache.GetOne(context.Background(), "1")
	require.NoError(t, err)

	dir.On("CompanyName", mock.Anything, "2").Return("Two Co", nil).Once()
	dir.On("CompanyName", mock.Anything, "3").Return("Three Co", nil).Once()

	// Act: duplicates in the input must be deduplicated.
	got := cache.GetMany(context.Background(), []string{"1", "2", "3", "2", "1"})

	// Assert
	assert.Equal(t, map[string]string{
		"1": "One Co",
		"2": "Two Co",
		"3": "Three Co",
	}, got)
	dir.AssertExpectations(t)
	assert.Len(t, dir.Calls, 3)
}

func TestCache_GetMany_FailedKeyLeftBlankAndUncached(t *testing.T) {
	// Arrange
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "bad").Return("", errors.New("timeout")).Once()
	dir.On("CompanyName", mock.Anything, "ok").Return("Ok Co", nil).Once()

	// Act
	got := cache.GetMany(context.Background(), []string{"bad", "ok"})

	// Assert: full key coverage, blank for the failure.
	assert.Equal(t, map[string]string{"bad": "", "ok": "Ok Co"}, got)

	// The failed key retries on the next call.
	dir.On("CompanyName", mock.Anything, "bad").Return("Bad Co", nil).Once()
	name, err := cache.GetOne(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, "Bad Co", name)
	dir.AssertExpectations(t)
}

func TestCache_Clear(t *testing.T) {
	// Arrange
	dir := new(MockDirectory)
	cache := NewCache(dir, logger.NewNop())

	dir.On("CompanyName", mock.Anything, "42").Return("Acme Industrial", nil).Twice()

	// Act
	_, _ = cache.GetOne(context.Background(), "42")
	cache.Clear()
	_, _ = cache.GetOne(context.Background(), "42")

	// Assert: clear forces the second network call.
	dir.AssertExpectations(t)
	assert.Len(t, dir.Calls, 2)
}

package testutils

import (
	"context"
	"fmt"

	"github.com/marqlabs/marq/pkg/vector"
)

// MockStore is a test vector store that records calls and returns
// configurable results.
type MockStore struct {
	// Records accumulates all records passed to Upsert, in call order.
	Records []vector.Record

	// Results is returned by Query.
	Results []vector.QueryResult

	// ResetCalls counts Reset invocations.
	ResetCalls int

	// UpsertCalls records the size of each Upsert call.
	UpsertCalls []int

	// FailReset causes Reset to return an error.
	FailReset bool

	// FailUpsert causes Upsert to return an error.
	FailUpsert bool

	// FailQuery causes Query to return an error.
	FailQuery bool
}

// NewMockStore creates a new mock vector store.
func NewMockStore() *MockStore {
	return &MockStore{
		Records: make([]vector.Record, 0),
	}
}

func (m *MockStore) Reset(_ context.Context) error {
	if m.FailReset {
		return fmt.Errorf("%w: mock reset failure", vector.ErrStorage)
	}
	m.ResetCalls++
	m.Records = m.Records[:0]
	return nil
}

func (m *MockStore) Upsert(_ context.Context, records []vector.Record) error {
	if m.FailUpsert {
		return fmt.Errorf("%w: mock upsert failure", vector.ErrStorage)
	}
	m.UpsertCalls = append(m.UpsertCalls, len(records))
	m.Records = append(m.Records, records...)
	return nil
}

func (m *MockStore) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailQuery {
		return nil, fmt.Errorf("%w: mock query failure", vector.ErrStorage)
	}
	if topK < len(m.Results) {
		return m.Results[:topK], nil
	}
	return m.Results, nil
}

func (m *MockStore) Count(_ context.Context) (int, error) {
	return len(m.Records), nil
}

func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements vector.Store
var _ vector.Store = (*MockStore)(nil)

package store_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl/store"
)

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

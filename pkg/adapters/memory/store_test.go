package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve/pkg/adapters/memory"
	"github.com/aretw0/sieve/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, memory.New())
}

func TestNewFromDefinitions(t *testing.T) {
	store := memory.NewFromDefinitions(map[string]string{
		"age":  "type: number",
		"name": "type: string",
	})

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "name"}, names, "List is sorted")

	def, err := store.Get(context.Background(), "age")
	require.NoError(t, err)
	assert.Equal(t, "type: number", string(def))
}

func TestStore_Watch(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "age", []byte("type: number")))
	require.NoError(t, store.Delete(ctx, "age"))

	for _, want := range []string{"age", "age"} {
		select {
		case got := <-events:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for watch event")
		}
	}

	cancel()
	select {
	case _, open := <-events:
		assert.False(t, open, "channel should close on context cancellation")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

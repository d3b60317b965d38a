package ports

import (
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVariableStoreContract runs a suite of tests to verify that a VariableStore
// implementation adheres to the defined interface contract.
// Each subtest receives a fresh store from newStore.
func RunVariableStoreContract(t *testing.T, newStore func(t *testing.T) VariableStore) {
	suffix := time.Now().Format("20060102150405.000")
	key := func(name string) string { return fmt.Sprintf("contract:%s:%s", name, suffix) }

	t.Run("Read Default", func(t *testing.T) {
		store := newStore(t)
		assert.Equal(t, "", store.Read(key("missing"), ""))
		assert.Equal(t, "fallback", store.Read(key("missing"), "fallback"))
	})

	t.Run("Write and Read", func(t *testing.T) {
		store := newStore(t)
		store.Write(key("answer"), "42")
		assert.Equal(t, "42", store.Read(key("answer"), ""))

		store.Write(key("index"), 2)
		idx, ok := domain.AsIndex(store.Read(key("index"), 0))
		require.True(t, ok, "index must round-trip as a number")
		assert.Equal(t, 2, idx)

		store.Write(key("flag"), false)
		assert.Equal(t, false, store.Read(key("flag"), true))
	})

	t.Run("Per Key Notification", func(t *testing.T) {
		store := newStore(t)
		var got []any
		other := 0
		unsub := store.Subscribe(key("watched"), func(_ string, v any) { got = append(got, v) })
		defer unsub()
		unsubOther := store.Subscribe(key("other"), func(string, any) { other++ })
		defer unsubOther()

		store.Write(key("watched"), "a")
		store.Write(key("unrelated"), "x")
		store.Write(key("watched"), "b")

		assert.Equal(t, []any{"a", "b"}, got)
		assert.Equal(t, 0, other, "listeners of other keys must not run")
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		store := newStore(t)
		calls := 0
		unsub := store.Subscribe(key("unsub"), func(string, any) { calls++ })
		store.Write(key("unsub"), "1")
		unsub()
		unsub()
		store.Write(key("unsub"), "2")
		assert.Equal(t, 1, calls)
	})

	t.Run("Writes From Listener Are Queued", func(t *testing.T) {
		store := newStore(t)
		var trace []string

		unsubA1 := store.Subscribe(key("a"), func(_ string, v any) {
			trace = append(trace, fmt.Sprintf("a1:%v", v))
			if v == "first" {
				store.Write(key("a"), "second")
				store.Write(key("b"), "chained")
			}
		})
		defer unsubA1()
		unsubA2 := store.Subscribe(key("a"), func(_ string, v any) {
			trace = append(trace, fmt.Sprintf("a2:%v", v))
		})
		defer unsubA2()
		unsubB := store.Subscribe(key("b"), func(_ string, v any) {
			trace = append(trace, fmt.Sprintf("b:%v", v))
		})
		defer unsubB()

		store.Write(key("a"), "first")

		assert.Equal(t, []string{"a1:first", "a2:first", "a1:second", "a2:second", "b:chained"}, trace)
		assert.Equal(t, "second", store.Read(key("a"), ""))
	})
}

package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("server.upload_root", "/srv/uploads"))

	val, ok := store.Get("server.upload_root")
	assert.True(t, ok)
	assert.Equal(t, "/srv/uploads", val)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store := NewConfigStore()

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("coordinator.warning_title", "Server Suspending")
	_ = store.Set("server.port", 8080)

	assert.Equal(t, "Server Suspending", store.GetString("coordinator.warning_title"))
	assert.Empty(t, store.GetString("server.port"), "wrong type")
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 8080, 8080},
		{"int64 from toml", int64(25), 25},
		{"float64", float64(30), 30},
		{"zero", 0, 0},
		{"wrong type", "8080", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			_ = store.Set("key", tt.value)
			assert.Equal(t, tt.want, store.GetInt("key"))
		})
	}

	assert.Zero(t, NewConfigStore().GetInt("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("server.allow_hidden_entries", true)
	_ = store.Set("notifications.enabled", "true")

	assert.True(t, store.GetBool("server.allow_hidden_entries"))
	assert.False(t, store.GetBool("notifications.enabled"), "string is not a bool")
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set(fmt.Sprintf("key-%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = store.GetInt(fmt.Sprintf("key-%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key-%d", i)))
	}
}

package eventlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

func upload(path string) domain.FileEvent {
	return domain.FileEvent{Kind: domain.FileEventUpload, Path: path}
}

func TestLog_Empty(t *testing.T) {
	l := New(nil, 0)

	assert.Zero(t, l.Len())
	assert.Contains(t, l.View(), "No activity yet.")
}

func TestLog_AppendAndView(t *testing.T) {
	l := New(nil, 10)

	l.Append(upload("a.txt"))
	l.Append(domain.FileEvent{Kind: domain.FileEventMove, Path: "a.txt", ToPath: "b.txt"})
	l.Append(domain.FileEvent{Kind: domain.SessionEventBackgrounded})

	view := l.View()
	assert.Contains(t, view, "[UPLOAD]")
	assert.Contains(t, view, "a.txt -> b.txt")
	assert.Contains(t, view, "[BACKGROUND]")
}

func TestLog_Capacity(t *testing.T) {
	l := New(nil, 3)

	for i := 0; i < 5; i++ {
		l.Append(upload(fmt.Sprintf("f%d", i)))
	}

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "f2", events[0].Path)
	assert.Equal(t, "f4", events[2].Path)
}

func TestLog_HeightLimitsView(t *testing.T) {
	l := New(nil, 10)
	l.SetHeight(2)

	l.Append(upload("first"))
	l.Append(upload("second"))
	l.Append(upload("third"))

	view := l.View()
	assert.NotContains(t, view, "first")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "third")
}

func TestLog_Timestamps(t *testing.T) {
	l := New(nil, 10)
	at := time.Date(2026, 1, 2, 13, 14, 15, 0, time.Local)

	l.Append(domain.FileEvent{Kind: domain.FileEventDelete, Path: "x", At: at})

	assert.Contains(t, l.View(), "13:14:15")
}

func TestLog_Clear(t *testing.T) {
	l := New(nil, 10)
	l.Append(upload("a"))

	l.Clear()

	assert.Zero(t, l.Len())
	assert.Empty(t, l.Events())
}

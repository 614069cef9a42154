package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []FileEvent, timeout time.Duration) []FileEvent {
	t.Helper()
	select {
	case batch, ok := <-ch:
		require.True(t, ok, "channel closed")
		return batch
	case <-time.After(timeout):
		t.Fatal("timeout waiting for batch")
		return nil
	}
}

func TestDebouncer_SingleEvent_PassesThrough(t *testing.T) {
	// Given: a debouncer with a short window
	d := NewDebouncer(30*time.Millisecond, nil)
	defer d.Stop()

	// When: a single event is added
	d.Add(FileEvent{Path: "/data/article_1.txt", Operation: OpModify})

	// Then: it passes through after the window
	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, "/data/article_1.txt", batch[0].Path)
	assert.Equal(t, OpModify, batch[0].Operation)
}

func TestDebouncer_BurstForSameFile_Coalesces(t *testing.T) {
	d := NewDebouncer(80*time.Millisecond, nil)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Add(FileEvent{Path: "/data/a.txt", Operation: OpModify})
		time.Sleep(5 * time.Millisecond)
	}

	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 1)
	assert.Equal(t, OpModify, batch[0].Operation)
}

func TestDebouncer_BatchSortedByPath(t *testing.T) {
	d := NewDebouncer(30*time.Millisecond, nil)
	defer d.Stop()

	d.Add(FileEvent{Path: "/data/b.txt", Operation: OpModify})
	d.Add(FileEvent{Path: "/data/a.txt", Operation: OpCreate})

	batch := receive(t, d.Output(), time.Second)
	require.Len(t, batch, 2)
	assert.Equal(t, "/data/a.txt", batch[0].Path)
	assert.Equal(t, "/data/b.txt", batch[1].Path)
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name     string
		first    Operation
		next     Operation
		want     Operation
		wantKeep bool
	}{
		{"create then modify stays create", OpCreate, OpModify, OpCreate, true},
		{"create then delete cancels", OpCreate, OpDelete, 0, false},
		{"delete then create is modify", OpDelete, OpCreate, OpModify, true},
		{"modify then delete is delete", OpModify, OpDelete, OpDelete, true},
		{"modify then rename is rename", OpModify, OpRename, OpRename, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := FileEvent{Path: "p", Operation: tt.first}
			merged, keep := coalesce(tt.first, prev, FileEvent{Path: "p", Operation: tt.next})

			assert.Equal(t, tt.wantKeep, keep)
			if keep {
				assert.Equal(t, tt.want, merged.Operation)
			}
		})
	}
}

func TestDebouncer_CreateThenDelete_NoBatch(t *testing.T) {
	d := NewDebouncer(30*time.Millisecond, nil)
	defer d.Stop()

	d.Add(FileEvent{Path: "/data/tmp.txt", Operation: OpCreate})
	d.Add(FileEvent{Path: "/data/tmp.txt", Operation: OpDelete})

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected batch: %v", batch)
	case <-time.After(120 * time.Millisecond):
	}
}

func TestDebouncer_Stop_ClosesOutputAndIgnoresAdds(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)

	d.Stop()
	d.Stop()
	d.Add(FileEvent{Path: "/data/a.txt", Operation: OpModify})

	_, ok := <-d.Output()
	assert.False(t, ok)
}

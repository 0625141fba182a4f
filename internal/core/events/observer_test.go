package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/devkit/internal/core/observability/log"
)

func TestLogObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	logger := log.New(log.LevelDebug, log.WithOutput(path))

	b := New()
	b.AddObserver(NewLogObserver(logger))
	_, _ = b.Subscribe(DiffFailed, func(Event) error { return errors.New("boom") })

	_ = b.Publish(NewEvent(DocumentLoaded, "left", nil))
	_ = b.Publish(NewEvent(DiffFailed, "session", nil))
	require.NoError(t, logger.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	require.Equal(t, "event delivered", entries[0]["msg"])
	require.Equal(t, "document.loaded", entries[0]["type"])
	require.Equal(t, "events", entries[0]["component"])
	require.Equal(t, "event handlers failed", entries[1]["msg"])
	require.Equal(t, "boom", entries[1]["error"])
}

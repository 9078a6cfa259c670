package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer for the test's duration.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	buf := capture(t, true)

	Debug("embedding query (%d dims)", 768)
	Info("loaded %d chunks", 1371)
	Warn("keyword gate empty, using full corpus")
	Section("Retrieval")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] embedding query (768 dims)\n")
	assert.Contains(t, out, "[INFO] loaded 1371 chunks\n")
	assert.Contains(t, out, "[WARN] keyword gate empty, using full corpus\n")
	assert.Contains(t, out, "\n=== Retrieval ===\n")
}

func TestQuietByDefault(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

// syncWriter serialises writes; Debug holds only a read lock, so
// concurrent callers can hit the writer at the same time.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestConcurrentUse(t *testing.T) {
	SetOutput(&syncWriter{})
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
			Debug("worker %d", n)
			IsVerbose()
		}(i)
	}
	wg.Wait()
}

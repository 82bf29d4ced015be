package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetSilent(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestVerboseOnlyLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"verbose", true, "[DEBUG] chunk 3\n[INFO] done\n\n=== Analysis ===\n"},
		{"quiet", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			Debug("chunk %d", 3)
			Info("done")
			Section("Analysis")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWarnAndErrorAlwaysPrint(t *testing.T) {
	buf := capture(t, false)

	Warn("rate limited (attempt %d/%d)", 1, 7)
	Error("batch %d failed", 2)

	assert.Equal(t, "[WARN] rate limited (attempt 1/7)\n[ERROR] batch 2 failed\n", buf.String())
}

func TestSilent(t *testing.T) {
	buf := capture(t, true)
	SetSilent(true)

	Debug("a")
	Warn("b")
	Error("c")
	Section("d")

	assert.Empty(t, buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := capture(t, false)
	SetTimestamps(true)

	Warn("x")

	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} \[WARN\] x\n$`, buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, true)
	SetOutput(io.Discard)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("goroutine %d", n)
			SetVerbose(n%2 == 0)
			Warn("goroutine %d", n)
		}(i)
	}
	wg.Wait()
}

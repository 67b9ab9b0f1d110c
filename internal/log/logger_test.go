package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestInitialize(t *testing.T) {
	var first, second bytes.Buffer
	Initialize(LevelInfo, &first)
	Info("to first")

	Initialize(LevelInfo, &second)
	Info("to second")

	if !strings.Contains(first.String(), "to first") || strings.Contains(first.String(), "to second") {
		t.Errorf("unexpected output in first writer: %q", first.String())
	}
	if !strings.Contains(second.String(), "to second") {
		t.Errorf("expected second writer to receive output, got %q", second.String())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Trace("test trace", "key", "value")
	Warn("test warn", "key", "value")

	out := buf.String()
	for _, want := range []string{"test info", "test debug", "test trace", "test warn"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("hidden")
	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}

	Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warnings at quiet level")
	}
}

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		level     int
		wantDebug bool
	}{
		{LevelQuiet, false},
		{LevelInfo, false},
		{LevelDebug, true},
		{LevelTrace, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		Initialize(tt.level, &buf)
		Debug("debug line")

		if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
			t.Errorf("at level %d: expected debug output=%v, got %v", tt.level, tt.wantDebug, got)
		}
	}
}

func TestDiscard(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)

	Discard()
	Warn("nowhere")
	Info("nowhere")

	if buf.Len() != 0 {
		t.Errorf("expected no output after Discard, got %q", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf safeBuffer
	Initialize(LevelDebug, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("worker", "n", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "worker"); got != 8 {
		t.Errorf("expected 8 log lines, got %d", got)
	}
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(3) // debug level
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Error("e")
	l.Warn("w")
	l.Info("i")
	l.Verbose("v")
	l.Debug("d")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), output)
	}

	wantPrefixes := []string{"[ERR]", "[WRN]", "[INF]", "[VRB]", "[DBG]"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d %q missing prefix %q", i, lines[i], prefix)
		}
	}
}

func TestLogger_NormalHidesVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)

	l.Info("transmission %d with user %d successful", 1, 0)
	l.Verbose("size received: %d", 3)

	output := buf.String()
	if !strings.Contains(output, "[INF] transmission 1 with user 0 successful") {
		t.Errorf("missing info line in %q", output)
	}
	if strings.Contains(output, "size received") {
		t.Errorf("verbose line leaked at normal level: %q", output)
	}
}

func TestLogger_QuietMode(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(0) // quiet
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Info("should not appear")
	l.Verbose("should not appear")
	l.Debug("should not appear")
	l.Error("always appears")

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("expected 1 line in quiet mode, got %d:\n%s", len(lines), output)
	}
}

func TestLogger_Timestamps(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(true)

	l.Info("test")

	output := buf.String()
	// Timestamp format is "HH:MM:SS.mmm"
	if !strings.Contains(output, ":") || len(output) < 15 {
		t.Errorf("expected timestamp prefix, got %q", output)
	}
}

func TestLogger_Color(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(1)
	l.SetOutput(&buf)
	l.SetTimestamps(false)

	l.Warn("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("buffer output should not be coloured: %q", buf.String())
	}

	buf.Reset()
	l.SetColor(true)
	l.Warn("coloured")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escape, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", buf.String())
	}
}

func TestBufPool_RoundTrip(t *testing.T) {
	p := NewBufPool(11)
	buf := p.Get()
	if buf == nil {
		t.Fatal("Get returned nil")
	}
	if len(*buf) != 11 {
		t.Errorf("buffer size = %d, want 11", len(*buf))
	}
	if p.Size() != 11 {
		t.Errorf("Size() = %d, want 11", p.Size())
	}

	(*buf)[0] = 0xFF
	p.Put(buf)

	// Get another buffer; it may or may not be the same one.
	buf2 := p.Get()
	if buf2 == nil || len(*buf2) != 11 {
		t.Fatal("second Get returned a bad buffer")
	}
	p.Put(buf2)
}

func TestBufPool_PutForeign(t *testing.T) {
	p := NewBufPool(4)
	// Should not panic.
	p.Put(nil)
	wrong := make([]byte, 8)
	p.Put(&wrong)
	if got := p.Get(); len(*got) != 4 {
		t.Errorf("pool returned a %d-byte buffer", len(*got))
	}
}

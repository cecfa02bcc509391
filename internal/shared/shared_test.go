package shared

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "0:00"},
		{name: "negative", in: -5 * time.Second, want: "0:00"},
		{name: "seconds", in: 7 * time.Second, want: "0:07"},
		{name: "minutes", in: 3*time.Minute + 25*time.Second, want: "3:25"},
		{name: "truncates fraction", in: 61*time.Second + 900*time.Millisecond, want: "1:01"},
		{name: "hours", in: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.in); got != tt.want {
				t.Errorf("FormatDuration(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tc := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tc {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := ParseLogLevel(""); got != log.InfoLevel {
		t.Errorf("empty level = %v, want info", got)
	}
	if got := ParseLogLevel("debug"); got != log.DebugLevel {
		t.Errorf("debug level = %v, want debug", got)
	}
	if got := ParseLogLevel("loud"); got != log.InfoLevel {
		t.Errorf("unknown level = %v, want info", got)
	}
}

func TestLoggers(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "module", "player")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "module=player") {
			t.Errorf("expected module field in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "playdeck.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger: %v", err)
		}
		logger.Info("written")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Errorf("expected log line in file, got %q", string(data))
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string of length 36, got %d", len(a))
	}
}

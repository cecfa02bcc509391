package media

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
)

func TestVirtual(t *testing.T) {
	t.Run("Play without source", func(t *testing.T) {
		v := NewVirtual(time.Second, 10*time.Millisecond)
		defer v.Close()

		if err := v.Play(); !errors.Is(err, shared.ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}
		if _, ok := v.Duration(); ok {
			t.Error("duration should be unknown before Load")
		}
	})

	t.Run("Load rejects empty source", func(t *testing.T) {
		v := NewVirtual(time.Second, 10*time.Millisecond)
		defer v.Close()

		if err := v.Load(""); !errors.Is(err, shared.ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}
	})

	t.Run("emits timeupdate then ended", func(t *testing.T) {
		v := NewVirtual(60*time.Millisecond, 10*time.Millisecond)
		defer v.Close()

		if err := v.Load("virtual://a"); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if err := v.Play(); err != nil {
			t.Fatalf("Play: %v", err)
		}

		var sawUpdate bool
		timeout := time.After(2 * time.Second)
		for {
			select {
			case ev := <-v.Events():
				switch ev.Kind {
				case TimeUpdate:
					sawUpdate = true
				case Ended:
					if !sawUpdate {
						t.Error("expected at least one timeupdate before ended")
					}
					if ev.Src != "virtual://a" {
						t.Errorf("ended src = %q", ev.Src)
					}
					if v.Playing() {
						t.Error("element should stop after ended")
					}
					return
				}
			case <-timeout:
				t.Fatal("timed out waiting for ended")
			}
		}
	})

	t.Run("Pause freezes position", func(t *testing.T) {
		v := NewVirtual(time.Minute, time.Hour)
		defer v.Close()

		now := time.Unix(0, 0)
		v.now = func() time.Time { return now }

		v.Load("virtual://b")
		v.Play()
		now = now.Add(3 * time.Second)
		v.Pause()
		now = now.Add(10 * time.Second)

		if got := v.CurrentTime(); got != 3*time.Second {
			t.Errorf("CurrentTime() = %v, want 3s", got)
		}
	})

	t.Run("SetCurrentTime clamps", func(t *testing.T) {
		v := NewVirtual(time.Minute, 10*time.Millisecond)
		defer v.Close()
		v.Load("virtual://c")

		v.SetCurrentTime(-time.Second)
		if got := v.CurrentTime(); got != 0 {
			t.Errorf("negative seek = %v, want 0", got)
		}
		v.SetCurrentTime(2 * time.Minute)
		if got := v.CurrentTime(); got != time.Minute {
			t.Errorf("seek past end = %v, want 1m", got)
		}
	})

	t.Run("Load rewinds and stops", func(t *testing.T) {
		v := NewVirtual(time.Minute, 10*time.Millisecond)
		defer v.Close()
		v.Load("virtual://d")
		v.Play()
		v.SetCurrentTime(20 * time.Second)
		v.Load("virtual://e")

		if v.Playing() {
			t.Error("Load should stop playback")
		}
		if got := v.CurrentTime(); got != 0 {
			t.Errorf("Load should rewind, got %v", got)
		}
	})

	t.Run("SetVolume clamps", func(t *testing.T) {
		v := NewVirtual(time.Minute, 10*time.Millisecond)
		defer v.Close()
		v.SetVolume(1.5)
		if v.Volume() != 1 {
			t.Errorf("Volume() = %v, want 1", v.Volume())
		}
	})

	t.Run("Play after Close is rejected", func(t *testing.T) {
		v := NewVirtual(time.Minute, 10*time.Millisecond)
		v.Load("virtual://f")
		v.Close()
		if err := v.Play(); !errors.Is(err, shared.ErrPlaybackRejected) {
			t.Errorf("expected ErrPlaybackRejected, got %v", err)
		}
	})
}

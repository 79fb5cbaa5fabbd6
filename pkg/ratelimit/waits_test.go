package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultWaitPolicy(t *testing.T) {
	policy := DefaultWaitPolicy()

	if policy.Transient != 5*time.Second {
		t.Errorf("Expected 5s transient wait, got %v", policy.Transient)
	}
	if policy.Throttle != 10*time.Second {
		t.Errorf("Expected 10s throttle wait, got %v", policy.Throttle)
	}
}

func TestSleepCompletes(t *testing.T) {
	start := time.Now()
	err := Sleep(context.Background(), 20*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Sleep failed: %v", err)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("Sleep returned after %v, expected at least 20ms", elapsed)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Sleep(ctx, 10*time.Second)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Sleep did not return after cancellation")
	}
}

func TestSleepZeroDuration(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) should return immediately without error, got %v", err)
	}
}

func TestCountdownLogsEachSecond(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)

	// Sub-second total still produces one tick.
	if err := Countdown(context.Background(), logger, 30*time.Millisecond); err != nil {
		t.Fatalf("Countdown failed: %v", err)
	}

	lines := strings.Count(buf.String(), "Waiting before retry")
	if lines != 1 {
		t.Errorf("Expected 1 countdown line, got %d: %s", lines, buf.String())
	}
}

func TestCountdownCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := zerolog.Nop()

	done := make(chan error, 1)
	go func() {
		done <- Countdown(ctx, logger, 30*time.Second)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Countdown did not return after cancellation")
	}
}

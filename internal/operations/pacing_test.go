package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kebairia/catbackup/internal/config"
)

func TestFixedDelay_Waits(t *testing.T) {
	p := FixedDelay{Delay: 20 * time.Millisecond}
	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("returned after %v", elapsed)
	}
}

func TestFixedDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FixedDelay{Delay: time.Hour}.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRateLimit_SpacesCalls(t *testing.T) {
	p := NewRateLimit(20) // one every 50ms
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	// First token is free, the next two cost ~50ms each
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("three waits took only %v", elapsed)
	}
}

func TestNewPacer(t *testing.T) {
	if _, ok := NewPacer(config.BackupConfig{Delay: time.Second}).(FixedDelay); !ok {
		t.Error("expected FixedDelay when rate_limit is zero")
	}
	if _, ok := NewPacer(config.BackupConfig{Delay: time.Second, RateLimit: 2}).(*RateLimit); !ok {
		t.Error("expected RateLimit when rate_limit is set")
	}
}

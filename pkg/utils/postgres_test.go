package utils

import (
	"testing"
	"time"
)

func TestPoolDefaults(t *testing.T) {
	got := PostgresPoolConfig{}.withDefaults()
	if got.MaxOpenConns <= 0 || got.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool sizes, got %+v", got)
	}
	if got.PingTimeout != 5*time.Second {
		t.Fatalf("PingTimeout = %v", got.PingTimeout)
	}
}

func TestPoolDefaultsKeepExplicitValues(t *testing.T) {
	in := PostgresPoolConfig{MaxOpenConns: 3, PingTimeout: time.Second}
	got := in.withDefaults()
	if got.MaxOpenConns != 3 || got.PingTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", got)
	}
}

package cache

import (
	"testing"

	"hireflow/internal/config"
)

func TestNewRedis_KeepsClientForRecovery(t *testing.T) {
	// Port 1 is never a redis server; the startup ping fails but the client
	// must survive so the cache starts working once redis comes back.
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)
	if r.isUnavailable() {
		t.Fatalf("failed startup ping must not discard the client")
	}
}

func TestEpochKey(t *testing.T) {
	if got := epochKey(" interview "); got != "queues:epoch:interview" {
		t.Fatalf("unexpected epoch key %q", got)
	}
}

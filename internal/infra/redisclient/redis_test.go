package redisclient

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/checks-dashboard/backend/config"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(&config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if !HealthCheck(client)() {
		t.Error("expected healthy client")
	}

	mr.Close()
	if HealthCheck(client)() {
		t.Error("expected unhealthy client after server shutdown")
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	if _, err := NewClient(&config.RedisConfig{URL: "not a url"}); err == nil {
		t.Error("expected invalid url to fail")
	}
}

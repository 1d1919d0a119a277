//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/pkarczewski/bdl-client/internal/testutil"
	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}
	return redisClient, cleanup
}

// TestCachedRequestFlow verifies that an identical second request is
// served from Redis without touching the remote source.
func TestCachedRequestFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockBDL()
	defer mock.Close()

	mock.SetJSON("/units/search", testutil.UnitsEnvelope(
		testutil.UnitJSON("023200000000", "DOLNOŚLĄSKIE", 2),
	))

	cfg := bdl.DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.RequestsPerSecond = 1000
	cfg.Redis = redisClient
	cfg.CacheTTL = 1 * time.Hour

	client, err := bdl.New(cfg)
	if err != nil {
		t.Fatalf("bdl.New() failed: %v", err)
	}

	ctx := context.Background()

	first, err := client.SearchUnits(ctx, "dolnośląskie", bdl.LevelVoivodeship)
	if err != nil {
		t.Fatalf("first SearchUnits() failed: %v", err)
	}
	second, err := client.SearchUnits(ctx, "dolnośląskie", bdl.LevelVoivodeship)
	if err != nil {
		t.Fatalf("second SearchUnits() failed: %v", err)
	}

	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if got := mock.RequestCount("/units/search"); got != 1 {
		t.Errorf("remote requests = %d, want 1 (second served from cache)", got)
	}

	// A different query must bypass the cached entry.
	if _, err := client.SearchUnits(ctx, "mazowieckie", bdl.LevelVoivodeship); err != nil {
		t.Fatalf("third SearchUnits() failed: %v", err)
	}
	if got := mock.RequestCount("/units/search"); got != 2 {
		t.Errorf("remote requests = %d, want 2 after distinct query", got)
	}
}

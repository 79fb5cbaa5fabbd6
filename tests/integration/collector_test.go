// Package integration exercises the full collection pipeline: fetcher,
// parsers, batch engine, CSV sink and checkpoint store against a mock API,
// plus the Redis response cache against a real Redis instance.
package integration

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/steamharvest/steamharvest/internal/testutil"
	"github.com/steamharvest/steamharvest/pkg/cache"
	"github.com/steamharvest/steamharvest/pkg/checkpoint"
	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/collector"
	"github.com/steamharvest/steamharvest/pkg/dataset"
	"github.com/steamharvest/steamharvest/pkg/ratelimit"
	"github.com/steamharvest/steamharvest/pkg/record"
	"github.com/steamharvest/steamharvest/pkg/sink"
	"github.com/steamharvest/steamharvest/pkg/steam"
)

// setupRedis creates a Redis container for integration testing.
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

// newFetcher builds a fetcher with short retry waits for tests.
func newFetcher(t *testing.T, source string, mgr *cache.Manager) *client.Fetcher {
	t.Helper()

	cfg := client.DefaultConfig(source)
	cfg.UserAgent = "steamharvest-integration/1.0"
	cfg.MaxAttempts = 3
	cfg.Waits = ratelimit.WaitPolicy{Transient: 5 * time.Millisecond, Throttle: 5 * time.Millisecond}
	cfg.Cache = mgr

	f, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create fetcher: %v", err)
	}
	return f
}

// appItems converts the mock catalog into collection items.
func appItems(apps []testutil.MockApp) []record.Item {
	items := make([]record.Item, len(apps))
	for i, app := range apps {
		items[i] = record.Item{ID: app.ID, Name: app.Name}
	}
	return items
}

// collectStore runs the batch engine for the storefront source against the
// mock API, resuming from the checkpoint in dir.
func collectStore(t *testing.T, api *testutil.MockAPI, fetcher *client.Fetcher, dir string, items []record.Item, opts collector.Options) (*collector.Summary, error) {
	t.Helper()

	parser := steam.NewStoreParser(fetcher)
	parser.SetEndpoint(api.StoreURL())

	source := steam.StoreSource()
	store := checkpoint.NewStore(filepath.Join(dir, source.IndexFile))
	cursor, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	opts.Source = source.Name
	opts.Start = cursor

	out := sink.NewCSV(filepath.Join(dir, source.DataFile), source.Schema)
	return collector.New(parser, out, store).Run(context.Background(), items, opts)
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return rows
}

// TestCollectionPipeline runs a full collection and verifies the CSV, the
// checkpoint and the request count line up.
func TestCollectionPipeline(t *testing.T) {
	api := testutil.NewMockAPI(testutil.Catalog(7)...)
	defer api.Close()

	dir := t.TempDir()
	items := appItems(testutil.Catalog(7))
	fetcher := newFetcher(t, "steam", nil)

	t.Log("Run 1: full collection")
	summary, err := collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 3})
	if err != nil {
		t.Fatalf("Collection failed: %v", err)
	}

	if summary.Batches != 3 {
		t.Errorf("Batches = %d, want 3", summary.Batches)
	}
	if summary.Records != 7 {
		t.Errorf("Records = %d, want 7", summary.Records)
	}
	if api.StoreRequests() != 7 {
		t.Errorf("API requests = %d, want 7", api.StoreRequests())
	}

	rows := readRows(t, filepath.Join(dir, "steam_app_data.csv"))
	if len(rows) != 8 {
		t.Fatalf("CSV rows = %d, want 8 (header + 7)", len(rows))
	}

	cursor, err := checkpoint.NewStore(filepath.Join(dir, "steam_index.txt")).Load()
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if cursor != 7 {
		t.Errorf("Checkpoint = %d, want 7", cursor)
	}

	t.Log("Run 2: already complete, nothing to fetch")
	summary, err = collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 3})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.Batches != 0 {
		t.Errorf("Second run batches = %d, want 0", summary.Batches)
	}
	if api.StoreRequests() != 7 {
		t.Errorf("API requests after second run = %d, want 7", api.StoreRequests())
	}
}

// TestResumeAfterInterrupt stops a collection partway and verifies the next
// run continues from the checkpoint without duplicating rows.
func TestResumeAfterInterrupt(t *testing.T) {
	api := testutil.NewMockAPI(testutil.Catalog(7)...)
	defer api.Close()

	dir := t.TempDir()
	items := appItems(testutil.Catalog(7))
	fetcher := newFetcher(t, "steam", nil)

	t.Log("Run 1: collect the first four apps, then stop")
	if _, err := collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 2, End: 4}); err != nil {
		t.Fatalf("Partial collection failed: %v", err)
	}

	t.Log("Run 2: resume to the end")
	summary, err := collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 2})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if summary.Start != 4 {
		t.Errorf("Resume start = %d, want 4", summary.Start)
	}

	if api.StoreRequests() != 7 {
		t.Errorf("API requests = %d, want 7 (no refetching)", api.StoreRequests())
	}

	rows := readRows(t, filepath.Join(dir, "steam_app_data.csv"))
	if len(rows) != 8 {
		t.Fatalf("CSV rows = %d, want 8 (header + 7)", len(rows))
	}

	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		appid := row[2]
		if seen[appid] {
			t.Errorf("Duplicate appid %s after resume", appid)
		}
		seen[appid] = true
	}
}

// TestCachedCollection verifies that recollecting after a reset is served
// from the Redis cache without touching the API again.
func TestCachedCollection(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	api := testutil.NewMockAPI(testutil.Catalog(5)...)
	defer api.Close()

	dir := t.TempDir()
	items := appItems(testutil.Catalog(5))
	mgr := cache.NewManager(redisClient, time.Minute)
	fetcher := newFetcher(t, "steam", mgr)

	t.Log("Run 1: populate the cache")
	if _, err := collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 5}); err != nil {
		t.Fatalf("Collection failed: %v", err)
	}
	if api.StoreRequests() != 5 {
		t.Fatalf("API requests = %d, want 5", api.StoreRequests())
	}

	// Start over from scratch, keeping only the cache.
	if err := checkpoint.NewStore(filepath.Join(dir, "steam_index.txt")).Reset(); err != nil {
		t.Fatalf("Failed to reset checkpoint: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "steam_app_data.csv")); err != nil {
		t.Fatalf("Failed to remove data file: %v", err)
	}

	t.Log("Run 2: recollect from the cache")
	summary, err := collectStore(t, api, fetcher, dir, items, collector.Options{BatchSize: 5})
	if err != nil {
		t.Fatalf("Recollection failed: %v", err)
	}
	if summary.Records != 5 {
		t.Errorf("Records = %d, want 5", summary.Records)
	}
	if api.StoreRequests() != 5 {
		t.Errorf("API requests = %d, want 5 (served from cache)", api.StoreRequests())
	}

	rows := readRows(t, filepath.Join(dir, "steam_app_data.csv"))
	if len(rows) != 6 {
		t.Errorf("CSV rows = %d, want 6 (header + 5)", len(rows))
	}
}

// TestTwoSourcePipeline collects both sources and merges them.
func TestTwoSourcePipeline(t *testing.T) {
	api := testutil.NewMockAPI(testutil.Catalog(4)...)
	defer api.Close()

	dir := t.TempDir()
	items := appItems(testutil.Catalog(4))

	if _, err := collectStore(t, api, newFetcher(t, "steam", nil), dir, items, collector.Options{BatchSize: 4}); err != nil {
		t.Fatalf("Steam collection failed: %v", err)
	}

	spySource := steam.SpySource()
	spyParser := steam.NewSpyParser(newFetcher(t, "steamspy", nil))
	spyParser.SetEndpoint(api.SpyURL())

	spyStore := checkpoint.NewStore(filepath.Join(dir, spySource.IndexFile))
	spySink := sink.NewCSV(filepath.Join(dir, spySource.DataFile), spySource.Schema)
	opts := collector.Options{Source: spySource.Name, BatchSize: 4}
	if _, err := collector.New(spyParser, spySink, spyStore).Run(context.Background(), items, opts); err != nil {
		t.Fatalf("SteamSpy collection failed: %v", err)
	}

	merged := filepath.Join(dir, dataset.MergedFile)
	result, err := dataset.Merge(
		filepath.Join(dir, "steam_app_data.csv"),
		filepath.Join(dir, "steamspy_data.csv"),
		merged,
	)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if result.Rows != 4 {
		t.Errorf("Merged rows = %d, want 4", result.Rows)
	}

	table, err := dataset.Load(merged)
	if err != nil {
		t.Fatalf("Failed to load merged data: %v", err)
	}
	if _, err := table.ColumnIndex("name_steamspy"); err != nil {
		t.Errorf("Merged header missing name_steamspy: %v", err)
	}
	if len(table.Rows) != 4 {
		t.Errorf("Merged table rows = %d, want 4", len(table.Rows))
	}
}

package steam

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"

	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/record"
	"github.com/steamharvest/steamharvest/pkg/sink"
)

// appListSchema is the column order of the persisted app list.
var appListSchema = record.Schema{"appid", "name"}

// FetchAppList downloads the full catalog from SteamSpy and returns it
// sorted ascending by appid. The sort fixes the processing order; the
// caller persists the result so later runs see the identical sequence
// even after the catalog changes upstream.
func FetchAppList(ctx context.Context, fetcher *client.Fetcher) ([]record.Item, error) {
	return fetchAppList(ctx, fetcher, SpyEndpoint)
}

func fetchAppList(ctx context.Context, fetcher *client.Fetcher, endpoint string) ([]record.Item, error) {
	query := url.Values{"request": []string{"all"}}

	value, err := fetcher.Fetch(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("fetch app list: %w", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("app list response is not an object (got %T)", value)
	}

	items := make([]record.Item, 0, len(obj))
	for key, v := range obj {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}

		item := record.Item{}
		switch id := entry["appid"].(type) {
		case float64:
			item.ID = int(id)
		default:
			// Fall back to the map key, which is the appid as a string.
			parsed, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			item.ID = parsed
		}
		if name, ok := entry["name"].(string); ok {
			item.Name = name
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("app list response contained no apps")
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// SaveAppList writes the app list CSV, replacing any previous file.
func SaveAppList(path string, items []record.Item) error {
	s := sink.NewCSV(path, appListSchema)
	if err := s.Init(0); err != nil {
		return fmt.Errorf("save app list: %w", err)
	}

	batch := make([]record.Record, len(items))
	for i, item := range items {
		batch[i] = record.Record{
			"appid": item.ID,
			"name":  item.Name,
		}
	}
	if err := s.Append(batch); err != nil {
		return fmt.Errorf("save app list: %w", err)
	}
	return nil
}

// LoadAppList reads a previously saved app list.
// A missing file is reported with a hint to run the applist command first.
func LoadAppList(path string) ([]record.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("app list %s not found: run the applist command first", path)
		}
		return nil, fmt.Errorf("open app list: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse app list: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("app list %s is empty", path)
	}
	if len(rows[0]) < 2 || rows[0][0] != "appid" || rows[0][1] != "name" {
		return nil, fmt.Errorf("app list %s has unexpected header %v", path, rows[0])
	}

	items := make([]record.Item, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("app list %s row %d is malformed", path, i+2)
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("app list %s row %d: bad appid %q", path, i+2, row[0])
		}
		items = append(items, record.Item{ID: id, Name: row[1]})
	}
	return items, nil
}

package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/record"
)

// SpyParser turns one SteamSpy appdetails response into a flat record.
// SteamSpy returns the record fields at the top level; the parser only
// guarantees that appid and name are populated, falling back to the app
// list's values when SteamSpy omits or blanks them.
type SpyParser struct {
	fetcher  *client.Fetcher
	endpoint string
}

// NewSpyParser creates a parser backed by the given fetcher.
func NewSpyParser(fetcher *client.Fetcher) *SpyParser {
	return &SpyParser{
		fetcher:  fetcher,
		endpoint: SpyEndpoint,
	}
}

// SetEndpoint overrides the API endpoint (for testing).
func (p *SpyParser) SetEndpoint(endpoint string) {
	p.endpoint = endpoint
}

// Parse fetches and shapes the record for one app.
func (p *SpyParser) Parse(ctx context.Context, appid int, name string) (record.Record, error) {
	query := url.Values{
		"request": []string{"appdetails"},
		"appid":   []string{strconv.Itoa(appid)},
	}

	value, err := p.fetcher.Fetch(ctx, p.endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("steamspy appdetails for %d: %w", appid, err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return p.Placeholder(appid, name), nil
	}

	rec := record.Record(obj)
	if _, ok := rec["appid"]; !ok {
		rec["appid"] = appid
	}
	if v, ok := rec["name"]; !ok || v == nil || v == "" {
		rec["name"] = name
	}
	return rec, nil
}

// Placeholder returns the minimal record for an app SteamSpy knows
// nothing about.
func (p *SpyParser) Placeholder(appid int, name string) record.Record {
	return record.Record{
		"appid": appid,
		"name":  name,
	}
}

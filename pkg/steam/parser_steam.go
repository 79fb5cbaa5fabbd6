package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/steamharvest/steamharvest/pkg/client"
	"github.com/steamharvest/steamharvest/pkg/record"
)

// StoreParser turns one storefront appdetails response into a flat record.
//
// The storefront wraps every payload as {"<appid>": {"success": bool,
// "data": {...}}}. Delisted and region-locked apps report success=false;
// those yield the minimal placeholder record instead of an error, so the
// app still occupies its row in the output.
type StoreParser struct {
	fetcher  *client.Fetcher
	endpoint string
}

// NewStoreParser creates a parser backed by the given fetcher.
func NewStoreParser(fetcher *client.Fetcher) *StoreParser {
	return &StoreParser{
		fetcher:  fetcher,
		endpoint: StoreEndpoint,
	}
}

// SetEndpoint overrides the API endpoint (for testing).
func (p *StoreParser) SetEndpoint(endpoint string) {
	p.endpoint = endpoint
}

// Parse fetches and shapes the record for one app.
func (p *StoreParser) Parse(ctx context.Context, appid int, name string) (record.Record, error) {
	query := url.Values{"appids": []string{strconv.Itoa(appid)}}

	value, err := p.fetcher.Fetch(ctx, p.endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("steam appdetails for %d: %w", appid, err)
	}

	return parseStoreResponse(value, appid, name), nil
}

// Placeholder returns the minimal record written when the storefront
// reports an app as unavailable.
func (p *StoreParser) Placeholder(appid int, name string) record.Record {
	return record.Record{
		"name":        name,
		"steam_appid": appid,
	}
}

func parseStoreResponse(value any, appid int, name string) record.Record {
	placeholder := record.Record{
		"name":        name,
		"steam_appid": appid,
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return placeholder
	}

	wrapper, ok := obj[strconv.Itoa(appid)].(map[string]any)
	if !ok {
		return placeholder
	}

	success, _ := wrapper["success"].(bool)
	if !success {
		return placeholder
	}

	data, ok := wrapper["data"].(map[string]any)
	if !ok {
		return placeholder
	}

	return record.Record(data)
}

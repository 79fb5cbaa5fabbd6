// Package steam binds the collection engine to its two data sources: the
// Steam storefront appdetails API and SteamSpy. It supplies the per-source
// descriptors (endpoint, column schema, pacing, file names), the response
// parsers, and app list acquisition.
package steam

import (
	"fmt"
	"time"

	"github.com/steamharvest/steamharvest/pkg/record"
)

// API endpoints.
const (
	StoreEndpoint = "https://store.steampowered.com/api/appdetails"
	SpyEndpoint   = "https://steamspy.com/api.php"
)

// Default file names under the data directory.
const (
	AppListFile = "app_list.csv"
)

// Source describes one collectable data source.
type Source struct {
	// Name identifies the source in the CLI, logs and metrics
	Name string

	// Endpoint is the API URL queried once per app
	Endpoint string

	// Schema is the fixed output column order
	Schema record.Schema

	// Pause is the default delay after each item fetch
	Pause time.Duration

	// DataFile is the output CSV name under the data directory
	DataFile string

	// IndexFile is the checkpoint file name under the data directory
	IndexFile string
}

// StoreSource returns the Steam storefront source descriptor.
func StoreSource() Source {
	return Source{
		Name:     "steam",
		Endpoint: StoreEndpoint,
		Schema: record.Schema{
			"type", "name", "steam_appid", "required_age", "is_free", "controller_support",
			"dlc", "detailed_description", "about_the_game", "short_description", "fullgame",
			"supported_languages", "header_image", "website", "pc_requirements", "mac_requirements",
			"linux_requirements", "legal_notice", "drm_notice", "ext_user_account_notice",
			"developers", "publishers", "demos", "price_overview", "packages", "package_groups",
			"platforms", "metacritic", "reviews", "categories", "genres", "screenshots",
			"movies", "recommendations", "achievements", "release_date", "support_info",
			"background", "content_descriptors",
		},
		Pause:     time.Second,
		DataFile:  "steam_app_data.csv",
		IndexFile: "steam_index.txt",
	}
}

// SpySource returns the SteamSpy source descriptor. SteamSpy tolerates a
// higher request rate than the storefront, hence the shorter pause.
func SpySource() Source {
	return Source{
		Name:     "steamspy",
		Endpoint: SpyEndpoint,
		Schema: record.Schema{
			"appid", "name", "developer", "publisher", "score_rank", "positive",
			"negative", "userscore", "owners", "average_forever", "average_2weeks",
			"median_forever", "median_2weeks", "price", "initialprice", "discount",
			"languages", "genre", "ccu", "tags",
		},
		Pause:     300 * time.Millisecond,
		DataFile:  "steamspy_data.csv",
		IndexFile: "steamspy_index.txt",
	}
}

// SourceByName resolves a CLI source argument.
func SourceByName(name string) (Source, error) {
	switch name {
	case "steam":
		return StoreSource(), nil
	case "steamspy":
		return SpySource(), nil
	default:
		return Source{}, fmt.Errorf("unknown source %q (expected steam or steamspy)", name)
	}
}

// SourceNames lists the valid source arguments in collection order.
func SourceNames() []string {
	return []string{"steam", "steamspy"}
}

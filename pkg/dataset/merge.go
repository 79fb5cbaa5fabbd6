package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// MergedFile is the default output name for the joined dataset.
const MergedFile = "merged_data.csv"

// MergeResult reports what the join kept and dropped.
type MergeResult struct {
	// Rows is the number of joined rows written
	Rows int

	// SteamOnly counts storefront apps with no SteamSpy row
	SteamOnly int

	// SpyOnly counts SteamSpy apps with no storefront row
	SpyOnly int

	// DuplicateRows counts rows dropped by last-write-wins dedup; these
	// come from re-fetched batches after an interrupted run
	DuplicateRows int

	// MalformedRows counts rows whose appid cell did not parse
	MalformedRows int
}

// Merge inner-joins the storefront and SteamSpy CSVs on appid and writes
// the combined table. Storefront columns come first, then the SteamSpy
// columns minus its appid; the SteamSpy name is kept as name_steamspy so
// both spellings survive. When either input holds an appid more than
// once, the last row wins.
func Merge(steamPath, spyPath, outPath string) (*MergeResult, error) {
	steam, err := Load(steamPath)
	if err != nil {
		return nil, err
	}
	spy, err := Load(spyPath)
	if err != nil {
		return nil, err
	}

	steamKey, err := steam.ColumnIndex("steam_appid")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", steamPath, err)
	}
	spyKey, err := spy.ColumnIndex("appid")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spyPath, err)
	}

	result := &MergeResult{}

	steamRows, steamOrder := dedupeByKey(steam.Rows, steamKey, result)
	spyRows, _ := dedupeByKey(spy.Rows, spyKey, result)

	header := make([]string, 0, len(steam.Header)+len(spy.Header)-1)
	header = append(header, steam.Header...)
	for i, name := range spy.Header {
		if i == spyKey {
			continue
		}
		if name == "name" {
			name = "name_steamspy"
		}
		header = append(header, name)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	matched := 0
	for _, appid := range steamOrder {
		spyRow, ok := spyRows[appid]
		if !ok {
			result.SteamOnly++
			continue
		}
		matched++

		row := make([]string, 0, len(header))
		row = append(row, steamRows[appid]...)
		for i, cell := range spyRow {
			if i == spyKey {
				continue
			}
			row = append(row, cell)
		}

		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row for appid %d: %w", appid, err)
		}
		result.Rows++
	}
	result.SpyOnly = len(spyRows) - matched

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush %s: %w", outPath, err)
	}
	return result, nil
}

// dedupeByKey indexes rows by their integer key cell, keeping the last
// occurrence and the first-seen order.
func dedupeByKey(rows [][]string, key int, result *MergeResult) (map[int][]string, []int) {
	byKey := make(map[int][]string, len(rows))
	order := make([]int, 0, len(rows))

	for _, row := range rows {
		if key >= len(row) {
			result.MalformedRows++
			continue
		}
		id, err := strconv.Atoi(row[key])
		if err != nil {
			result.MalformedRows++
			continue
		}
		if _, seen := byKey[id]; seen {
			result.DuplicateRows++
		} else {
			order = append(order, id)
		}
		byKey[id] = row
	}
	return byKey, order
}

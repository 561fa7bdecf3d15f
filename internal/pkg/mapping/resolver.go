package mapping

import (
	"fmt"
	"log"
	"time"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/internal/pkg/cache"
)

// Resolution modes. Insert produces the ordered value vector for a sheet
// append; update produces addressed cells for an in-place row update.
const (
	ModeInsert = "insert"
	ModeUpdate = "update"
)

// UpdateCell is one resolved cell in update mode.
type UpdateCell struct {
	Valid            bool   `json:"valid"`
	GoogleSheetIndex string `json:"google_sheet_index"`
	Value            string `json:"value"`
	Toggle           bool   `json:"source_field_index_toggle"`
}

// Resolve arranges extracted field values into column order for an append.
// Entries whose SourceFieldIndex was never set produce no column at all;
// a mapped field that is absent from fields produces an empty string.
func Resolve(entries models.ColumnMap, fields map[string]string) []string {
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.SourceFieldIndex == nil {
			continue
		}
		values = append(values, fields[*entry.SourceFieldIndex])
	}
	return values
}

// ResolveUpdate resolves the map for an in-place row update. Cells keep
// their sheet address and carry the per-column toggle flag; Valid reports
// whether the source field was present in the extracted data.
func ResolveUpdate(entries models.ColumnMap, fields map[string]string) []UpdateCell {
	cells := make([]UpdateCell, 0, len(entries))
	for _, entry := range entries {
		if entry.SourceFieldIndex == nil {
			continue
		}
		value, ok := fields[*entry.SourceFieldIndex]
		cells = append(cells, UpdateCell{
			Valid:            ok,
			GoogleSheetIndex: entry.GoogleSheetIndex,
			Value:            value,
			Toggle:           entry.SourceFieldIndexToggle,
		})
	}
	return cells
}

// MapLoader fetches and deserializes a column map from storage.
type MapLoader func() (models.ColumnMap, error)

// CachedColumnMap is the read-through cache in front of MapLoader, keyed by
// the (plugin, source, tab, mode) tuple. Entries expire by TTL only; an
// integration edit does not invalidate them, so edits can serve a stale map
// until the TTL runs out. That window is accepted behavior, not a bug.
func CachedColumnMap(pluginID, sourceID, tabID, mode string, ttl time.Duration, load MapLoader) (models.ColumnMap, error) {
	key := cacheKey(pluginID, sourceID, tabID, mode)

	var cached models.ColumnMap
	err := cache.GetJSON(key, &cached)
	if err == nil {
		return cached, nil
	}
	if !cache.IsMiss(err) {
		log.Printf("mapping cache read failed for %s: %v", key, err)
	}

	entries, err := load()
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(key, entries, ttl); err != nil {
		log.Printf("mapping cache write failed for %s: %v", key, err)
	}
	return entries, nil
}

func cacheKey(pluginID, sourceID, tabID, mode string) string {
	return fmt.Sprintf("mapping:%s:%s:%s:%s", pluginID, sourceID, tabID, mode)
}

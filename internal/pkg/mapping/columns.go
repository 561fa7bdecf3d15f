package mapping

import "github.com/saifgs/sheetbridge/app/models"

// ColumnLocation converts a zero-based column index into the A1-notation
// cell of the sheet header row: 0 -> "A1", 25 -> "Z1", 26 -> "AA1".
func ColumnLocation(index int) string {
	return columnLetters(index) + "1"
}

// columnLetters implements bijective base-26: A..Z, AA..AZ, BA.. and so on.
func columnLetters(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

// ColumnRange derives the sheet range covered by a column map from its
// first and last mapped sheet cell, e.g. "A1:C1". The stored range must stay
// consistent with the map, so this runs at every integration save.
func ColumnRange(entries models.ColumnMap) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].GoogleSheetIndex + ":" + entries[len(entries)-1].GoogleSheetIndex
}

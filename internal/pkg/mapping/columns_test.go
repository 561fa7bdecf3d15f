package mapping

import (
	"testing"

	"github.com/saifgs/sheetbridge/app/models"
)

func TestColumnLocation(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{index: 0, want: "A1"},
		{index: 1, want: "B1"},
		{index: 25, want: "Z1"},
		{index: 26, want: "AA1"},
		{index: 51, want: "AZ1"},
		{index: 52, want: "BA1"},
		{index: 701, want: "ZZ1"},
		{index: 702, want: "AAA1"},
	}

	for _, tt := range tests {
		if got := ColumnLocation(tt.index); got != tt.want {
			t.Fatalf("ColumnLocation(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestColumnRange(t *testing.T) {
	name := "your-name"
	email := "your-email"
	entries := models.ColumnMap{
		{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: &name},
		{Key: 1, GoogleSheetIndex: "B1", SourceFieldIndex: &email},
		{Key: 2, GoogleSheetIndex: "C1"},
	}

	if got := ColumnRange(entries); got != "A1:C1" {
		t.Fatalf("ColumnRange = %q, want %q", got, "A1:C1")
	}
	if got := ColumnRange(models.ColumnMap{}); got != "" {
		t.Fatalf("ColumnRange on empty map = %q, want empty", got)
	}
}

package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
)

func mapped(field string) *string { return &field }

func TestReconcileColumnMapTrimsBeyondHeaders(t *testing.T) {
	entries := models.ColumnMap{
		{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: mapped("name")},
		{Key: 1, GoogleSheetIndex: "B1", SourceFieldIndex: mapped("email")},
		{Key: 2, GoogleSheetIndex: "C1", SourceFieldIndex: mapped("phone")},
	}

	got := reconcileColumnMap(entries, []string{"Name", "Email"})
	assert.Len(t, got, 2)
	assert.Equal(t, "B1", got[1].GoogleSheetIndex)
}

func TestReconcileColumnMapAppendsNewHeaders(t *testing.T) {
	entries := models.ColumnMap{
		{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: mapped("name")},
	}

	got := reconcileColumnMap(entries, []string{"Name", "Email", "Phone"})
	assert.Len(t, got, 3)
	// appended entries keep sheet position but stay unmapped
	assert.Equal(t, "B1", got[1].GoogleSheetIndex)
	assert.Nil(t, got[1].SourceFieldIndex)
	assert.Equal(t, "C1", got[2].GoogleSheetIndex)
	assert.Nil(t, got[2].SourceFieldIndex)
	// the existing mapping is untouched
	assert.Equal(t, "name", *got[0].SourceFieldIndex)
}

func TestReconcileColumnMapNoChange(t *testing.T) {
	entries := models.ColumnMap{
		{Key: 0, GoogleSheetIndex: "A1", SourceFieldIndex: mapped("name")},
		{Key: 1, GoogleSheetIndex: "B1"},
	}

	got := reconcileColumnMap(entries, []string{"Name", "Email"})
	assert.Len(t, got, 2)
}

func TestIntegrationListCacheKeyVariesByFilter(t *testing.T) {
	a := integrationListCacheKey(repository.IntegrationListFilter{Title: "x", Limit: 20})
	b := integrationListCacheKey(repository.IntegrationListFilter{Title: "y", Limit: 20})
	c := integrationListCacheKey(repository.IntegrationListFilter{Title: "x", Limit: 20})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}

package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SheetTab is one tab of a spreadsheet.
type SheetTab struct {
	SheetID int64  `json:"sheet_id"`
	Title   string `json:"title"`
	Index   int    `json:"index"`
}

// AppendValues appends one row to the given range and returns the updated
// row range reported by the API (persisted into the audit table).
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rangeA1 string, values []string) (string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.sheetsBaseURL, url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	payload := map[string]interface{}{"values": []interface{}{row}}

	raw, err := c.Request(ctx, http.MethodPost, endpoint, payload, nil)
	if err != nil {
		return "", err
	}

	var out struct {
		Updates struct {
			UpdatedRange string `json:"updatedRange"`
		} `json:"updates"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	return out.Updates.UpdatedRange, nil
}

// UpdateValues overwrites the given range with one row of values.
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rangeA1 string, values []string) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		c.sheetsBaseURL, url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	payload := map[string]interface{}{"values": []interface{}{row}}

	_, err := c.Request(ctx, http.MethodPut, endpoint, payload, nil)
	return err
}

// HeaderRow fetches row 1 of a tab, used to reconcile a stored column map
// against a sheet whose columns may have changed.
func (c *Client) HeaderRow(ctx context.Context, spreadsheetID, tabTitle string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.sheetsBaseURL, url.PathEscape(spreadsheetID), url.PathEscape(tabTitle+"!1:1"))

	raw, err := c.Request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if len(out.Values) == 0 {
		return []string{}, nil
	}
	return out.Values[0], nil
}

// SheetTabs lists the tabs of a spreadsheet.
func (c *Client) SheetTabs(ctx context.Context, spreadsheetID string) ([]SheetTab, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=sheets.properties",
		c.sheetsBaseURL, url.PathEscape(spreadsheetID))

	raw, err := c.Request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Sheets []struct {
			Properties struct {
				SheetID int64  `json:"sheetId"`
				Title   string `json:"title"`
				Index   int    `json:"index"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	tabs := make([]SheetTab, 0, len(out.Sheets))
	for _, sheet := range out.Sheets {
		tabs = append(tabs, SheetTab{
			SheetID: sheet.Properties.SheetID,
			Title:   sheet.Properties.Title,
			Index:   sheet.Properties.Index,
		})
	}
	return tabs, nil
}

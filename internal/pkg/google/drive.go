package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DriveFile is one spreadsheet visible to the connected account.
type DriveFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DriveSpreadsheets lists the spreadsheets the connected account can see,
// backing the sheet picker in the admin UI.
func (c *Client) DriveSpreadsheets(ctx context.Context) ([]DriveFile, error) {
	query := url.Values{}
	query.Set("q", "mimeType='application/vnd.google-apps.spreadsheet' and trashed=false")
	query.Set("fields", "files(id,name)")
	query.Set("pageSize", "1000")
	endpoint := fmt.Sprintf("%s/drive/v3/files?%s", c.driveBaseURL, query.Encode())

	raw, err := c.Request(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Files []DriveFile `json:"files"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	tokens []string
	calls  int
}

func (s *staticTokens) ActiveToken(ctx context.Context) (string, error) {
	if len(s.tokens) == 0 {
		return "", errors.New("no token")
	}
	token := s.tokens[0]
	if len(s.tokens) > 1 {
		s.tokens = s.tokens[1:]
	}
	s.calls++
	return token, nil
}

func newTestClient(tokens TokenSource, baseURL string) *Client {
	c := NewClient(tokens)
	c.sheetsBaseURL = baseURL
	c.driveBaseURL = baseURL
	return c
}

func TestRequestAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"token-1"}}, srv.URL)
	raw, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":"yes"}`, string(raw))
}

func TestRequestDoesNotLetHeadersClobberAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.Equal(t, "value", r.Header.Get("X-Custom"))
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"token-1"}}, srv.URL)
	_, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil, map[string]string{
		"Authorization": "Bearer attacker",
		"X-Custom":      "value",
	})
	require.NoError(t, err)
}

func TestRequestRetriesOnceOn401(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tokens := &staticTokens{tokens: []string{"stale", "fresh"}}
	c := newTestClient(tokens, srv.URL)
	raw, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(raw))
	require.Equal(t, 2, attempts)
}

func TestRequestRetryIsCapped(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"always-stale"}}, srv.URL)
	_, err := c.Request(context.Background(), http.MethodGet, srv.URL, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, 2, attempts, "persistent 401 must stop after one retry")
}

func TestAppendValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var payload struct {
			Values [][]string `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, [][]string{{"Jane", "jane@x.com"}}, payload.Values)

		json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]string{"updatedRange": "Sheet1!A5:B5"},
		})
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"token-1"}}, srv.URL)
	updated, err := c.AppendValues(context.Background(), "sheet-id", "Sheet1!A1:B1", []string{"Jane", "jane@x.com"})
	require.NoError(t, err)
	require.Equal(t, "Sheet1!A5:B5", updated)
}

func TestHeaderRowEmptySheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"token-1"}}, srv.URL)
	header, err := c.HeaderRow(context.Background(), "sheet-id", "Sheet1")
	require.NoError(t, err)
	require.Empty(t, header)
}

func TestSheetTabs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{"sheetId": 0, "title": "Orders", "index": 0}},
				{"properties": map[string]any{"sheetId": 914, "title": "Leads", "index": 1}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(&staticTokens{tokens: []string{"token-1"}}, srv.URL)
	tabs, err := c.SheetTabs(context.Background(), "sheet-id")
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	require.Equal(t, "Leads", tabs[1].Title)
	require.Equal(t, int64(914), tabs[1].SheetID)
}

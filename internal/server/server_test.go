// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/store"
)

func roster() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": 1.0, "firstName": "Ada", "department": "Engineering", "salary": 150000.0},
		{"id": 2.0, "firstName": "Bob", "department": "Sales", "salary": 80000.0},
		{"id": 3.0, "firstName": "Cy", "department": "Engineering", "salary": 95000.0},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(context.Background(), func(context.Context) ([]map[string]interface{}, error) {
		return roster(), nil
	})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, rawURL string, v interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp
}

type listBody struct {
	Employees []map[string]interface{} `json:"employees"`
}

func firstNames(body listBody) []string {
	out := make([]string, len(body.Employees))
	for i, e := range body.Employees {
		out[i] = e["firstName"].(string)
	}
	return out
}

func TestList(t *testing.T) {
	ts := newTestServer(t)

	var body listBody
	resp := getJSON(t, ts.URL+"/api/employees", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Ada", "Bob", "Cy"}, firstNames(body))
	assert.Equal(t, "3", resp.Header.Get("X-Total-Count"))
}

func TestListFilters(t *testing.T) {
	ts := newTestServer(t)

	u, err := store.EncodeURL(ts.URL+"/api/employees", []filters.Condition{
		{ID: "a", Field: "department", Operator: filters.OpEquals, Value: filters.String("Engineering")},
	})
	require.NoError(t, err)

	var body listBody
	getJSON(t, u, &body)
	assert.Equal(t, []string{"Ada", "Cy"}, firstNames(body))

	// The filter spec combines with the encoded list.
	getJSON(t, u+"&filter="+url.QueryEscape("salary<100000"), &body)
	assert.Equal(t, []string{"Cy"}, firstNames(body))
}

func TestListSortAndLimit(t *testing.T) {
	ts := newTestServer(t)

	var body listBody
	getJSON(t, ts.URL+"/api/employees?sort=-salary&limit=2", &body)
	assert.Equal(t, []string{"Ada", "Cy"}, firstNames(body))

	var errBody map[string]string
	resp := getJSON(t, ts.URL+"/api/employees?limit=lots", &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGet(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Employee map[string]interface{} `json:"employee"`
	}
	resp := getJSON(t, ts.URL+"/api/employees/2", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bob", body.Employee["firstName"])

	var errBody map[string]string
	resp = getJSON(t, ts.URL+"/api/employees/99", &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Employee not found", errBody["error"])
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)

	var errBody map[string]string
	resp := getJSON(t, ts.URL+"/api/nope", &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReset(t *testing.T) {
	calls := 0
	s, err := New(context.Background(), func(context.Context) ([]map[string]interface{}, error) {
		calls++
		return roster()[:calls], nil
	})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/_reset", "application/json", nil)
	require.NoError(t, err)
	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, 2, body["count"])
}

func TestNewLoadError(t *testing.T) {
	_, err := New(context.Background(), func(context.Context) ([]map[string]interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.ErrorContains(t, err, "boom")
}

func TestServe(t *testing.T) {
	s, err := New(context.Background(), func(context.Context) ([]map[string]interface{}, error) {
		return roster(), nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	addrc := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", s.Handler(), func(a net.Addr) { addrc <- a })
	}()

	addr := <-addrc
	var body listBody
	getJSON(t, "http://"+addr.String()+"/api/employees", &body)
	assert.Len(t, body.Employees, 3)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second)
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"username":"nurse","role":"user","location_id":7}`))
	})
	c := newServer(t, mux)

	session, err := c.Login(context.Background(), "nurse", "good")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Username: "nurse", Role: domain.RoleUser, LocationID: "7"}, *session)

	_, err = c.Login(context.Background(), "nurse", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ServerErrorIsInvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := newServer(t, mux).Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()
	c := New(srv.URL, time.Second)

	_, err := c.Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrUnreachable)

	_, err = c.FetchData(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestFetchData_Lenient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"demo": {"epsp_name": "EPSP X", "cible_2_11m": "300", "cible_12_59m": 700},
			"locations": [{"id": 1, "name": "Polyclinique", "type": "Polyclinique"}],
			"inventory": [{"location_id": 1, "total_N": "12", "total_O": null}]
		}`))
	})

	snap, err := newServer(t, mux).FetchData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Count(1000), snap.Demo.CibleTotal)
	assert.Equal(t, domain.FacilityID("1"), snap.Locations[0].ID)
	assert.Equal(t, []domain.CounterRecord{{LocationID: "1", N: 12}}, snap.Inventory)
}

func TestFetchData_MissingSections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	snap, err := newServer(t, mux).FetchData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Locations)
	assert.NotNil(t, snap.Locations)
	assert.NotNil(t, snap.Inventory)
}

func TestSubmitInventory_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inventory", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid inventory entry"}`))
	})

	err := newServer(t, mux).SubmitInventory(context.Background(), domain.InventoryEntry{LocationID: "1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid inventory entry", apiErr.Message)
}

func TestGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/groups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"groups":[{"name":"Nord","members":["A","B"]}],"warnings":[{"code":"unknown_member","group":"Nord","name":"B","message":"m"}]}`))
	})

	resp, err := newServer(t, mux).Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, []string{"A", "B"}, resp.Groups[0].Members)
	assert.Equal(t, "unknown_member", string(resp.Warnings[0].Code))
}

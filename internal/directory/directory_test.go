package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCapsAndMaps(t *testing.T) {
	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotName = r.URL.Query().Get("name")

		out := make([]university, 0, 15)
		for i := 0; i < 15; i++ {
			out = append(out, university{
				Name:    fmt.Sprintf("Washington College %d", i),
				Country: "United States",
				Domains: []string{fmt.Sprintf("wc%d.edu", i)},
			})
		}
		out[1].Domains = nil
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Search(context.Background(), " washington state ")
	require.NoError(t, err)
	assert.Equal(t, "washington state", gotName)
	require.Len(t, got, MaxResults)
	assert.Equal(t, models.UserSchool{Name: "Washington College 0", Country: "United States", Domain: "wc0.edu"}, got[0])
	assert.Empty(t, got[1].Domain)
}

func TestSearchShortQuerySkipsRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Search(context.Background(), "w")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), "harvard")
	require.Error(t, err)
	assert.Equal(t, models.KindTransport, models.KindOf(err))
}

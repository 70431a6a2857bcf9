package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ayam04/game-rec-live/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogServer serves pages of two games each, three pages in total.
func catalogServer(t *testing.T, failOn int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1))
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		if n == failOn {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"detail":"slow down"}`))
			return
		}
		next := "null"
		if n < 3 {
			next = fmt.Sprintf("%q", fmt.Sprintf("%s/games?key=secret&page=%d", srv.URL, n+1))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"count":6,"next":%s,"results":[
			{"id":%d,"name":"Game %d","genres":[{"name":"RPG"}],"tags":[{"name":"Singleplayer"},{"name":"Story"}],
			 "background_image":"https://img/%d.jpg","short_screenshots":[{"id":1,"image":"https://shot/%d.jpg"}]},
			{"id":%d,"name":"Game %d","genres":[],"tags":[],"background_image":null,"short_screenshots":[]}
		]}`, next, 2*n-1, 2*n-1, 2*n-1, 2*n-1, 2*n, 2*n)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchAllFollowsNext(t *testing.T) {
	srv, hits := catalogServer(t, 0)
	f, err := NewFetcher(shared.NewNopLogger(), FetchOptions{BaseURL: srv.URL, APIKey: "secret", PageSize: 2})
	require.NoError(t, err)

	games, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 6)
	assert.Equal(t, int32(3), hits.Load())
	for i, g := range games {
		assert.Equal(t, i+1, g.ID)
	}
	assert.Equal(t, Game{
		ID:     1,
		Title:  "Game 1",
		Genres: []string{"RPG"},
		Tags:   []string{"Singleplayer", "Story"},
		Images: Images{Background: ptr("https://img/1.jpg"), Screenshots: []string{"https://shot/1.jpg"}},
	}, games[0])
	assert.Nil(t, games[1].Images.Background)

	path := filepath.Join(t.TempDir(), "all.json")
	require.NoError(t, WriteJSON(path, games[:2]))
	reread, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, games[:2], reread)
}

func TestFetchAllStopsAtLimit(t *testing.T) {
	srv, hits := catalogServer(t, 0)
	f, err := NewFetcher(shared.NewNopLogger(), FetchOptions{BaseURL: srv.URL, APIKey: "secret", PageSize: 2, Limit: 3})
	require.NoError(t, err)

	games, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 3)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAllStopsOnBadStatus(t *testing.T) {
	srv, _ := catalogServer(t, 2)
	f, err := NewFetcher(shared.NewNopLogger(), FetchOptions{BaseURL: srv.URL, APIKey: "secret", PageSize: 2})
	require.NoError(t, err)

	games, err := f.FetchAll(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Len(t, games, 2)
}

func TestNewFetcherValidation(t *testing.T) {
	_, err := NewFetcher(nil, FetchOptions{APIKey: "k", PageSize: 1})
	assert.ErrorIs(t, err, shared.ErrNoLogger)
	_, err = NewFetcher(shared.NewNopLogger(), FetchOptions{PageSize: 1})
	assert.ErrorIs(t, err, shared.ErrNoAPIKey)
	_, err = NewFetcher(shared.NewNopLogger(), FetchOptions{APIKey: "k"})
	assert.Error(t, err)
}

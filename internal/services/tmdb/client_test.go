package tmdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkarr/linkarr/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeCatalog serves canned search and detail responses
func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/configuration", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "good-key" {
			http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": 11, "title": "The Matrix Resurrections", "release_date": "2021-12-22"},
				{"id": 603, "title": "The Matrix", "release_date": "1999-03-30"},
			},
		})
	})
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "credits,keywords,videos,translations", r.URL.Query().Get("append_to_response"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             603,
			"title":          "The Matrix",
			"original_title": "The Matrix",
			"overview":       "A computer hacker learns the truth.",
			"release_date":   "1999-03-30",
			"runtime":        136,
			"imdb_id":        "tt0133093",
			"vote_average":   8.2,
			"vote_count":     24000,
			"poster_path":    "/matrix.jpg",
			"genres":         []map[string]interface{}{{"id": 28, "name": "Action"}},
			"production_companies": []map[string]interface{}{
				{"id": 1, "name": "Warner Bros."},
				{"id": 2, "name": "Village Roadshow"},
			},
			"belongs_to_collection": map[string]interface{}{"id": 2344, "name": "The Matrix Collection"},
			"credits": map[string]interface{}{
				"cast": []map[string]interface{}{
					{"id": 6384, "name": "Keanu Reeves", "character": "Neo"},
				},
				"crew": []map[string]interface{}{
					{"id": 9339, "name": "Lilly Wachowski", "job": "Director"},
					{"id": 9340, "name": "Lana Wachowski", "job": "Screenplay"},
					{"id": 1091, "name": "Joel Silver", "job": "Producer"},
					{"id": 1092, "name": "Someone Else", "job": "Gaffer"},
				},
			},
			"keywords": map[string]interface{}{
				"keywords": []map[string]interface{}{{"id": 1, "name": "cyberpunk"}},
			},
			"videos": map[string]interface{}{
				"results": []map[string]interface{}{
					{"type": "Featurette", "site": "YouTube", "key": "skip-me"},
					{"type": "Trailer", "site": "YouTube", "key": "vKQi3bBA1y8"},
				},
			},
			"translations": map[string]interface{}{
				"translations": []map[string]interface{}{
					{"iso_639_1": "zh", "iso_3166_1": "TW", "data": map[string]interface{}{"title": "駭客任務"}},
					{"iso_639_1": "zh", "iso_3166_1": "CN", "data": map[string]interface{}{"title": "黑客帝国"}},
				},
			},
		})
	})
	mux.HandleFunc("/search/tv", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": 1396, "name": "Breaking Bad", "first_air_date": "2008-01-20"},
			},
		})
	})
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "credits,keywords,videos,translations,external_ids", r.URL.Query().Get("append_to_response"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                 1396,
			"name":               "Breaking Bad",
			"original_name":      "Breaking Bad",
			"first_air_date":     "2008-01-20",
			"episode_run_time":   []int{47},
			"number_of_seasons":  5,
			"number_of_episodes": 62,
			"status":             "Ended",
			"external_ids":       map[string]interface{}{"imdb_id": "tt0903747"},
			"keywords": map[string]interface{}{
				"results": []map[string]interface{}{{"id": 2, "name": "drug cartel"}},
			},
		})
	})
	mux.HandleFunc("/tv/1396/season/1/episode/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":       "Pilot",
			"overview":   "Walter White turns to crime.",
			"air_date":   "2008-01-20",
			"still_path": "/pilot.jpg",
			"guest_stars": []map[string]interface{}{
				{"id": 5, "name": "Guest One", "character": "Dealer"},
			},
			"credits": map[string]interface{}{
				"crew": []map[string]interface{}{
					{"id": 6, "name": "Vince Gilligan", "job": "Director"},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchAndFetchMovie(t *testing.T) {
	srv := fakeCatalog(t)
	client := NewClient(testLogger(), WithBaseURL(srv.URL))

	meta := client.SearchAndFetch(context.Background(), "The Matrix", "1999", "good-key", models.MediaTypeMovie)
	require.NotNil(t, meta)

	// exact year match beats the top-ranked result
	assert.Equal(t, 603, meta.CatalogID)
	assert.Equal(t, "黑客帝国", meta.Title)
	assert.Equal(t, "The Matrix", meta.OriginalTitle)
	assert.Equal(t, "1999", meta.Year)
	assert.Equal(t, 136, meta.RuntimeMinutes)
	assert.Equal(t, "tt0133093", meta.IMDBID)
	assert.Equal(t, "Warner Bros., Village Roadshow", meta.Studio)
	assert.Equal(t, []string{"Action"}, meta.Genres)
	assert.Equal(t, []string{"cyberpunk"}, meta.Keywords)
	require.NotNil(t, meta.Collection)
	assert.Equal(t, "The Matrix Collection", meta.Collection.Name)
	assert.Equal(t, "plugin://plugin.video.youtube/play/?video_id=vKQi3bBA1y8", meta.TrailerURI)

	require.Len(t, meta.Cast, 1)
	assert.Equal(t, "Neo", meta.Cast[0].Role)
	require.Len(t, meta.Directors, 1)
	assert.Equal(t, "Lilly Wachowski", meta.Directors[0].Name)
	require.Len(t, meta.Writers, 1)
	require.Len(t, meta.Producers, 1)
	assert.Equal(t, "Producer", meta.Producers[0].Role)
}

func TestSearchAndFetchShow(t *testing.T) {
	srv := fakeCatalog(t)
	client := NewClient(testLogger(), WithBaseURL(srv.URL))

	meta := client.SearchAndFetch(context.Background(), "Breaking Bad", "", "good-key", models.MediaTypeShow)
	require.NotNil(t, meta)

	assert.Equal(t, 1396, meta.CatalogID)
	assert.Equal(t, "2008", meta.Year)
	assert.Equal(t, 47, meta.RuntimeMinutes)
	assert.Equal(t, "tt0903747", meta.IMDBID)
	assert.Equal(t, 5, meta.SeasonCount)
	assert.Equal(t, 62, meta.EpisodeCount)
	assert.Equal(t, "Ended", meta.Status)
	assert.Equal(t, []string{"drug cartel"}, meta.Keywords)
}

func TestSearchAndFetchCaches(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": 42, "title": "Film", "release_date": "2020-01-01"},
			},
		})
	})
	mux.HandleFunc("/movie/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 42, "title": "Film", "release_date": "2020-01-01"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testLogger(), WithBaseURL(srv.URL))
	first := client.SearchAndFetch(context.Background(), "Film", "2020", "k", models.MediaTypeMovie)
	second := client.SearchAndFetch(context.Background(), "Film", "2020", "k", models.MediaTypeMovie)

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestSearchAndFetchAbsentOnNoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testLogger(), WithBaseURL(srv.URL))
	meta := client.SearchAndFetch(context.Background(), "Nothing", "", "k", models.MediaTypeMovie)
	assert.Nil(t, meta)
}

func TestSearchAndFetchAbsentWithoutKey(t *testing.T) {
	client := NewClient(testLogger())
	meta := client.SearchAndFetch(context.Background(), "Film", "", "", models.MediaTypeMovie)
	assert.Nil(t, meta)
}

func TestFetchEpisodeDetail(t *testing.T) {
	srv := fakeCatalog(t)
	client := NewClient(testLogger(), WithBaseURL(srv.URL))

	detail := client.FetchEpisodeDetail(context.Background(), 1396, "01", "01", "good-key")
	require.NotNil(t, detail)
	assert.Equal(t, "Pilot", detail.Title)
	assert.Equal(t, "2008-01-20", detail.AirDate)
	assert.Equal(t, "/pilot.jpg", detail.StillPath)
	require.Len(t, detail.GuestStars, 1)
	require.Len(t, detail.Directors, 1)
	assert.Equal(t, "Vince Gilligan", detail.Directors[0].Name)
}

func TestFetchEpisodeDetailBadNumbers(t *testing.T) {
	client := NewClient(testLogger())
	assert.Nil(t, client.FetchEpisodeDetail(context.Background(), 1, "one", "01", "k"))
}

func TestCheckConnectivity(t *testing.T) {
	srv := fakeCatalog(t)
	client := NewClient(testLogger(), WithBaseURL(srv.URL))

	assert.True(t, client.CheckConnectivity(context.Background(), "good-key"))
	assert.False(t, client.CheckConnectivity(context.Background(), "bad-key"))
	assert.False(t, client.CheckConnectivity(context.Background(), ""))
}

func TestDownloadImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/poster.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testLogger(), WithImageBaseURL(srv.URL))
	dest := filepath.Join(t.TempDir(), "poster.jpg")

	require.NoError(t, client.DownloadImage(context.Background(), "/poster.jpg", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	// existing destination short-circuits without a request
	require.NoError(t, os.WriteFile(dest, []byte("original"), 0644))
	require.NoError(t, client.DownloadImage(context.Background(), "/poster.jpg", dest))
	data, _ = os.ReadFile(dest)
	assert.Equal(t, "original", string(data))
}

func TestDownloadImageEmptyPathIsNoop(t *testing.T) {
	client := NewClient(testLogger())
	assert.NoError(t, client.DownloadImage(context.Background(), "", filepath.Join(t.TempDir(), "x.jpg")))
}

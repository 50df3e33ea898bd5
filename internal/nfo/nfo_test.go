package nfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkarr/linkarr/internal/models"
)

func sampleMovie() *models.MediaMetadata {
	return &models.MediaMetadata{
		CatalogID:       603,
		MediaType:       models.MediaTypeMovie,
		Title:           "The Matrix",
		OriginalTitle:   "The Matrix",
		Overview:        "A computer hacker learns the truth.",
		Tagline:         "Free your mind",
		RuntimeMinutes:  136,
		ReleaseDate:     "1999-03-30",
		Year:            "1999",
		Genres:          []string{"Action", "Science Fiction"},
		Studio:          "Warner Bros.",
		SpokenLanguages: []string{"English"},
		VoteAverage:     8.2,
		VoteCount:       24000,
		IMDBID:          "tt0133093",
		Cast:            []models.Person{{Name: "Keanu Reeves", Role: "Neo"}},
		Directors:       []models.Person{{Name: "Lilly Wachowski"}},
		Writers:         []models.Person{{Name: "Lana Wachowski"}},
		Keywords:        []string{"cyberpunk"},
		TrailerURI:      "plugin://plugin.video.youtube/play/?video_id=vKQi3bBA1y8",
	}
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteMovie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "The Matrix.1999.nfo")
	meta := sampleMovie()
	meta.Collection = &models.Collection{Name: "The Matrix Collection", ID: 2344}

	require.NoError(t, WriteMovie(meta, "The.Matrix.1999.mkv", path))
	doc := readDoc(t, path)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<movie>")
	assert.Contains(t, doc, "<originalfilename>The.Matrix.1999.mkv</originalfilename>")
	assert.Contains(t, doc, "<title>The Matrix</title>")
	assert.Contains(t, doc, "<year>1999</year>")
	assert.Contains(t, doc, "<rating>8.2</rating>")
	assert.Contains(t, doc, `<uniqueid type="tmdb" default="true">603</uniqueid>`)
	assert.Contains(t, doc, `<uniqueid type="imdb">tt0133093</uniqueid>`)
	assert.Contains(t, doc, "<genre>Action</genre>")
	assert.Contains(t, doc, "<tag>cyberpunk</tag>")
	assert.Contains(t, doc, "<credits>Lana Wachowski</credits>")
	assert.Contains(t, doc, "<role>Neo</role>")
	assert.Contains(t, doc, "<name>The Matrix Collection</name>")
	assert.Contains(t, doc, "<tmdbcolid>2344</tmdbcolid>")
	assert.Contains(t, doc, "<trailer>plugin://plugin.video.youtube/play/?video_id=vKQi3bBA1y8</trailer>")

	// tmdb id must come before the imdb id
	assert.Less(t, strings.Index(doc, `type="tmdb"`), strings.Index(doc, `type="imdb"`))
}

// Absent values are omitted entirely, never written as empty elements
func TestWriteMovieOmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.nfo")
	meta := &models.MediaMetadata{Title: "Bare", CatalogID: 1}

	require.NoError(t, WriteMovie(meta, "bare.mkv", path))
	doc := readDoc(t, path)

	assert.NotContains(t, doc, "<tagline>")
	assert.NotContains(t, doc, "<rating>")
	assert.NotContains(t, doc, "<votes>")
	assert.NotContains(t, doc, "<runtime>")
	assert.NotContains(t, doc, "<set>")
	assert.NotContains(t, doc, "<trailer>")
	assert.NotContains(t, doc, "></") // no empty elements at all
}

func TestWriteEpisode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ep.nfo")
	identity := models.MediaIdentity{
		Kind: models.KindEpisode, Title: "Breaking Bad", Season: "01", Episode: "01",
	}
	meta := &models.MediaMetadata{
		CatalogID:   1396,
		MediaType:   models.MediaTypeShow,
		Title:       "Breaking Bad",
		Overview:    "Show-level plot.",
		ReleaseDate: "2008-01-20",
		Year:        "2008",
	}
	withOverlay := meta.WithEpisode(&models.EpisodeDetail{
		Title:      "Pilot",
		Overview:   "Walter White turns to crime.",
		AirDate:    "2008-01-20",
		Directors:  []models.Person{{Name: "Vince Gilligan"}},
		GuestStars: []models.Person{{Name: "Guest One", Role: "Dealer"}},
	})

	require.NoError(t, WriteEpisode(withOverlay, identity, "Breaking.Bad.S01E01.mkv", path))
	doc := readDoc(t, path)

	assert.Contains(t, doc, "<episodedetails>")
	assert.Contains(t, doc, "<showtitle>Breaking Bad</showtitle>")
	assert.Contains(t, doc, "<season>01</season>")
	assert.Contains(t, doc, "<episode>01</episode>")
	assert.Contains(t, doc, "<title>Pilot</title>")
	assert.Contains(t, doc, "<plot>Walter White turns to crime.</plot>")
	assert.Contains(t, doc, "<director>Vince Gilligan</director>")
	assert.Contains(t, doc, "<name>Guest One</name>")
}

// Without an overlay the episode degrades to show-level title and plot
func TestWriteEpisodeWithoutOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ep.nfo")
	identity := models.MediaIdentity{
		Kind: models.KindEpisode, Title: "Breaking Bad", Season: "01", Episode: "02",
	}
	meta := &models.MediaMetadata{Title: "Breaking Bad", Overview: "Show-level plot."}

	require.NoError(t, WriteEpisode(meta, identity, "bb.mkv", path))
	doc := readDoc(t, path)

	assert.Contains(t, doc, "<title>Breaking Bad S01E02</title>")
	assert.Contains(t, doc, "<plot>Show-level plot.</plot>")
}

func TestWriteShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvshow.nfo")
	meta := &models.MediaMetadata{
		CatalogID: 1396,
		Title:     "Breaking Bad",
		Overview:  "A chemistry teacher turns to crime.",
		Status:    "Ended",
		Year:      "2008",
		IMDBID:    "tt0903747",
	}

	require.NoError(t, WriteShow(meta, path))
	doc := readDoc(t, path)

	assert.Contains(t, doc, "<tvshow>")
	assert.Contains(t, doc, "<status>Ended</status>")
	assert.Contains(t, doc, `<uniqueid type="tmdb" default="true">1396</uniqueid>`)
}

// A failed write must never leave a partial document at the target path
func TestWriteIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.nfo")
	require.NoError(t, WriteMovie(sampleMovie(), "m.mkv", path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "movie.nfo", entries[0].Name())
}

package models

// Person is a named catalog entry (cast or crew member)
type Person struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	ExternalID int    `json:"id,omitempty"`
}

// Collection identifies the movie collection a title belongs to
type Collection struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// EpisodeDetail is the per-episode overlay fetched for episode files.
// It is merged onto a show-level record for output purposes only and
// never stored back into the metadata cache.
type EpisodeDetail struct {
	Title      string
	Overview   string
	AirDate    string
	StillPath  string
	Directors  []Person
	GuestStars []Person
}

// MediaMetadata is the normalized catalog record for a movie or show
type MediaMetadata struct {
	CatalogID       int
	MediaType       MediaType
	Title           string
	OriginalTitle   string
	Overview        string
	Tagline         string
	RuntimeMinutes  int
	ReleaseDate     string
	Year            string
	Genres          []string
	Studio          string
	SpokenLanguages []string
	VoteAverage     float64
	VoteCount       int
	PosterPath      string
	IMDBID          string
	Collection      *Collection
	Cast            []Person
	Directors       []Person
	Writers         []Person
	Producers       []Person
	Keywords        []string
	TrailerURI      string

	// Show-level fields, zero for movies
	SeasonCount  int
	EpisodeCount int
	Status       string

	// Episode overlay, nil unless merged for a single episode file
	Episode *EpisodeDetail
}

// WithEpisode returns a copy of the record carrying the episode overlay.
// The receiver is left untouched so the cached show record stays clean.
func (m MediaMetadata) WithEpisode(detail *EpisodeDetail) *MediaMetadata {
	m.Episode = detail
	return &m
}

// EpisodeTitle returns the overlay episode title when present
func (m *MediaMetadata) EpisodeTitle() string {
	if m.Episode != nil {
		return m.Episode.Title
	}
	return ""
}

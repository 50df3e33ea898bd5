package tmdb

// searchResponse is the payload of /search/movie and /search/tv
type searchResponse struct {
	Results []searchResult `json:"results"`
}

// searchResult is one search hit; movie and tv shapes share it
// (title/release_date for movies, name/first_air_date for shows)
type searchResult struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

// year returns the release or first-air year of a search hit
func (r searchResult) year() string {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

type namedEntity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type spokenLanguage struct {
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

type collectionRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type castEntry struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type crewEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type creditsBlock struct {
	Cast []castEntry `json:"cast"`
	Crew []crewEntry `json:"crew"`
}

// keywordsBlock covers both shapes: movies nest keywords under
// "keywords", shows under "results"
type keywordsBlock struct {
	Keywords []namedEntity `json:"keywords"`
	Results  []namedEntity `json:"results"`
}

type videoEntry struct {
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
}

type videosBlock struct {
	Results []videoEntry `json:"results"`
}

type translationEntry struct {
	ISO639  string          `json:"iso_639_1"`
	ISO3166 string          `json:"iso_3166_1"`
	Data    translationData `json:"data"`
}

type translationData struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}

type translationsBlock struct {
	Translations []translationEntry `json:"translations"`
}

type externalIDs struct {
	IMDBID string `json:"imdb_id"`
}

// detailResponse is the full detail payload for /movie/{id} and
// /tv/{id} with credits, keywords, videos and translations appended.
// Movie and show field names are normalized by the client.
type detailResponse struct {
	ID                  int               `json:"id"`
	Title               string            `json:"title"`
	Name                string            `json:"name"`
	OriginalTitle       string            `json:"original_title"`
	OriginalName        string            `json:"original_name"`
	Overview            string            `json:"overview"`
	Tagline             string            `json:"tagline"`
	Runtime             int               `json:"runtime"`
	EpisodeRunTime      []int             `json:"episode_run_time"`
	ReleaseDate         string            `json:"release_date"`
	FirstAirDate        string            `json:"first_air_date"`
	Genres              []namedEntity     `json:"genres"`
	ProductionCompanies []namedEntity     `json:"production_companies"`
	SpokenLanguages     []spokenLanguage  `json:"spoken_languages"`
	VoteAverage         float64           `json:"vote_average"`
	VoteCount           int               `json:"vote_count"`
	PosterPath          string            `json:"poster_path"`
	IMDBID              string            `json:"imdb_id"`
	ExternalIDs         *externalIDs      `json:"external_ids"`
	BelongsToCollection *collectionRef    `json:"belongs_to_collection"`
	NumberOfSeasons     int               `json:"number_of_seasons"`
	NumberOfEpisodes    int               `json:"number_of_episodes"`
	Status              string            `json:"status"`
	Credits             creditsBlock      `json:"credits"`
	Keywords            keywordsBlock     `json:"keywords"`
	Videos              videosBlock       `json:"videos"`
	Translations        translationsBlock `json:"translations"`
}

// episodeResponse is the payload of /tv/{id}/season/{s}/episode/{e}
type episodeResponse struct {
	Name       string       `json:"name"`
	Overview   string       `json:"overview"`
	AirDate    string       `json:"air_date"`
	StillPath  string       `json:"still_path"`
	GuestStars []castEntry  `json:"guest_stars"`
	Credits    creditsBlock `json:"credits"`
}

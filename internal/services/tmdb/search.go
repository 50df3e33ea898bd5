package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/linkarr/linkarr/internal/models"
)

// castLimit bounds the actor list copied into NFO documents
const castLimit = 20

// Crew job names partitioned into the three NFO credit groups
var (
	writerJobs   = map[string]struct{}{"Writer": {}, "Screenplay": {}, "Author": {}, "Story": {}}
	producerJobs = map[string]struct{}{"Producer": {}, "Executive Producer": {}}
)

// SearchAndFetch resolves a title to a normalized metadata record in
// two round-trips: a search to pick the catalog id, then a detail fetch
// with credits, keywords, videos and translations appended. The result
// is cached for the client lifetime; a nil return means metadata is
// unavailable for this title and the file should be recorded as failed.
func (c *Client) SearchAndFetch(ctx context.Context, title, year, apiKey string, mediaType models.MediaType) *models.MediaMetadata {
	if apiKey == "" {
		c.logger.Warn("No TMDB API key configured, skipping metadata fetch")
		return nil
	}

	key := cacheKey(title, year, apiKey, mediaType)
	if cached, found := c.cache.Get(key); found {
		return cached.(*models.MediaMetadata)
	}

	id, ok := c.search(ctx, title, year, apiKey, mediaType)
	if !ok {
		return nil
	}

	meta := c.fetchDetail(ctx, id, apiKey, mediaType)
	if meta == nil {
		return nil
	}

	c.cache.Set(key, meta, cache.NoExpiration)
	return meta
}

func cacheKey(title, year, apiKey string, mediaType models.MediaType) string {
	return strings.Join([]string{title, year, apiKey, string(mediaType)}, "|")
}

// search queries the search endpoint and disambiguates by year.
// Movies are year-filtered at the API; shows are not because first-air
// date search is unreliable. When several hits share the name, the
// first whose year matches exactly wins; otherwise the top result is
// taken as a best-effort default.
func (c *Client) search(ctx context.Context, title, year, apiKey string, mediaType models.MediaType) (int, bool) {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("query", title)
	params.Set("language", c.language)
	if year != "" && mediaType == models.MediaTypeMovie {
		params.Set("primary_release_year", year)
	}

	var resp searchResponse
	if err := c.doGet(ctx, "/search/"+string(mediaType), params, &resp); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"title": title,
			"type":  mediaType,
		}).Error("TMDB search failed")
		return 0, false
	}

	if len(resp.Results) == 0 {
		c.logger.WithFields(logrus.Fields{
			"title": title,
			"type":  mediaType,
		}).Warn("No TMDB results for title")
		return 0, false
	}

	best := resp.Results[0]
	if year != "" {
		for _, r := range resp.Results {
			if r.year() == year {
				best = r
				break
			}
		}
	}

	return best.ID, true
}

// fetchDetail retrieves the full record and normalizes the movie and
// show field shapes into one MediaMetadata.
func (c *Client) fetchDetail(ctx context.Context, id int, apiKey string, mediaType models.MediaType) *models.MediaMetadata {
	isMovie := mediaType == models.MediaTypeMovie

	appended := "credits,keywords,videos,translations"
	if !isMovie {
		// show-level IMDB ids only come through external_ids
		appended += ",external_ids"
	}

	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("language", c.language)
	params.Set("append_to_response", appended)

	var data detailResponse
	path := fmt.Sprintf("/%s/%d", mediaType, id)
	if err := c.doGet(ctx, path, params, &data); err != nil {
		c.logger.WithError(err).WithField("id", id).Error("TMDB detail fetch failed")
		return nil
	}

	meta := &models.MediaMetadata{
		CatalogID: data.ID,
		MediaType: mediaType,
	}

	if isMovie {
		meta.Title = data.Title
		meta.OriginalTitle = data.OriginalTitle
		meta.ReleaseDate = data.ReleaseDate
		meta.RuntimeMinutes = data.Runtime
		meta.IMDBID = data.IMDBID
		if data.BelongsToCollection != nil {
			meta.Collection = &models.Collection{
				Name: data.BelongsToCollection.Name,
				ID:   data.BelongsToCollection.ID,
			}
		}
	} else {
		meta.Title = data.Name
		meta.OriginalTitle = data.OriginalName
		meta.ReleaseDate = data.FirstAirDate
		if len(data.EpisodeRunTime) > 0 {
			meta.RuntimeMinutes = data.EpisodeRunTime[0]
		}
		if data.ExternalIDs != nil {
			meta.IMDBID = data.ExternalIDs.IMDBID
		}
		meta.SeasonCount = data.NumberOfSeasons
		meta.EpisodeCount = data.NumberOfEpisodes
		meta.Status = data.Status
	}

	if localized := localizedTitle(data.Translations, isMovie); localized != "" {
		meta.Title = localized
	}
	if len(meta.ReleaseDate) >= 4 {
		meta.Year = meta.ReleaseDate[:4]
	}

	meta.Overview = data.Overview
	meta.Tagline = data.Tagline
	meta.VoteAverage = data.VoteAverage
	meta.VoteCount = data.VoteCount
	meta.PosterPath = data.PosterPath

	for _, g := range data.Genres {
		meta.Genres = append(meta.Genres, g.Name)
	}
	studios := make([]string, 0, len(data.ProductionCompanies))
	for _, co := range data.ProductionCompanies {
		studios = append(studios, co.Name)
	}
	meta.Studio = strings.Join(studios, ", ")
	for _, l := range data.SpokenLanguages {
		name := l.Name
		if name == "" {
			name = l.EnglishName
		}
		if name != "" {
			meta.SpokenLanguages = append(meta.SpokenLanguages, name)
		}
	}

	cast := data.Credits.Cast
	if len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	for _, a := range cast {
		meta.Cast = append(meta.Cast, models.Person{Name: a.Name, Role: a.Character, ExternalID: a.ID})
	}
	for _, cr := range data.Credits.Crew {
		person := models.Person{Name: cr.Name, ExternalID: cr.ID}
		switch {
		case cr.Job == "Director":
			meta.Directors = append(meta.Directors, person)
		case inJobSet(writerJobs, cr.Job):
			meta.Writers = append(meta.Writers, person)
		case inJobSet(producerJobs, cr.Job):
			person.Role = cr.Job
			meta.Producers = append(meta.Producers, person)
		}
	}

	keywords := data.Keywords.Keywords
	if !isMovie {
		keywords = data.Keywords.Results
	}
	for _, k := range keywords {
		meta.Keywords = append(meta.Keywords, k.Name)
	}

	for _, v := range data.Videos.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			meta.TrailerURI = "plugin://plugin.video.youtube/play/?video_id=" + v.Key
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"id":    meta.CatalogID,
		"title": meta.Title,
		"type":  mediaType,
	}).Info("Fetched TMDB metadata")

	return meta
}

// localizedTitle prefers a Simplified Chinese title from the
// translations list; an empty return keeps the primary title.
func localizedTitle(block translationsBlock, isMovie bool) string {
	for _, t := range block.Translations {
		if t.ISO639 != "zh" || (t.ISO3166 != "CN" && t.ISO3166 != "SG") {
			continue
		}
		title := t.Data.Title
		if !isMovie {
			title = t.Data.Name
		}
		if title != "" {
			return title
		}
	}
	return ""
}

func inJobSet(set map[string]struct{}, job string) bool {
	_, ok := set[job]
	return ok
}

// FetchEpisodeDetail retrieves the per-episode overlay for one file.
// Season and episode arrive as the zero-padded strings matched from the
// filename. The fragment is merged onto the show record by the caller
// and is deliberately not cached against it; a nil return degrades the
// episode NFO to show-level fields instead of failing the file.
func (c *Client) FetchEpisodeDetail(ctx context.Context, showID int, season, episode, apiKey string) *models.EpisodeDetail {
	seasonNum, err := strconv.Atoi(season)
	if err != nil {
		return nil
	}
	episodeNum, err := strconv.Atoi(episode)
	if err != nil {
		return nil
	}

	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("language", c.language)
	params.Set("append_to_response", "credits")

	var data episodeResponse
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, seasonNum, episodeNum)
	if err := c.doGet(ctx, path, params, &data); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"show_id": showID,
			"season":  season,
			"episode": episode,
		}).Warn("Episode detail fetch failed")
		return nil
	}

	detail := &models.EpisodeDetail{
		Title:     data.Name,
		Overview:  data.Overview,
		AirDate:   data.AirDate,
		StillPath: data.StillPath,
	}
	for _, g := range data.GuestStars {
		detail.GuestStars = append(detail.GuestStars, models.Person{Name: g.Name, Role: g.Character, ExternalID: g.ID})
	}
	for _, cr := range data.Credits.Crew {
		if cr.Job == "Director" {
			detail.Directors = append(detail.Directors, models.Person{Name: cr.Name, ExternalID: cr.ID})
		}
	}
	return detail
}

// Package nfo renders Kodi-compatible metadata sidecar documents.
// Three schemas exist: <movie> for movie files, <episodedetails> for a
// single episode file and <tvshow> for the show-level summary. Absent
// source values are omitted entirely rather than written as empty tags
// so downstream library-manager parsers stay tolerant.
package nfo

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/linkarr/linkarr/internal/models"
)

// uniqueID is the stable identifier element (tmdb id first, imdb after)
type uniqueID struct {
	Type    string `xml:"type,attr"`
	Default bool   `xml:"default,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type actor struct {
	Name string `xml:"name,omitempty"`
	Role string `xml:"role,omitempty"`
}

type setBlock struct {
	Name      string `xml:"name,omitempty"`
	TMDBColID string `xml:"tmdbcolid,omitempty"`
}

type movieDoc struct {
	XMLName          xml.Name   `xml:"movie"`
	OriginalFilename string     `xml:"originalfilename,omitempty"`
	Title            string     `xml:"title,omitempty"`
	OriginalTitle    string     `xml:"originaltitle,omitempty"`
	SortTitle        string     `xml:"sorttitle,omitempty"`
	Rating           string     `xml:"rating,omitempty"`
	Year             string     `xml:"year,omitempty"`
	Votes            string     `xml:"votes,omitempty"`
	Plot             string     `xml:"plot,omitempty"`
	Tagline          string     `xml:"tagline,omitempty"`
	Runtime          string     `xml:"runtime,omitempty"`
	Premiered        string     `xml:"premiered,omitempty"`
	Studio           string     `xml:"studio,omitempty"`
	UniqueIDs        []uniqueID `xml:"uniqueid"`
	Genres           []string   `xml:"genre"`
	Languages        []string   `xml:"language"`
	Tags             []string   `xml:"tag"`
	Directors        []string   `xml:"director"`
	Credits          []string   `xml:"credits"`
	Actors           []actor    `xml:"actor"`
	Set              *setBlock  `xml:"set"`
	Trailer          string     `xml:"trailer,omitempty"`
}

type episodeDoc struct {
	XMLName          xml.Name   `xml:"episodedetails"`
	OriginalFilename string     `xml:"originalfilename,omitempty"`
	ShowTitle        string     `xml:"showtitle,omitempty"`
	Season           string     `xml:"season,omitempty"`
	Episode          string     `xml:"episode,omitempty"`
	Title            string     `xml:"title,omitempty"`
	Plot             string     `xml:"plot,omitempty"`
	Runtime          string     `xml:"runtime,omitempty"`
	Premiered        string     `xml:"premiered,omitempty"`
	Aired            string     `xml:"aired,omitempty"`
	Studio           string     `xml:"studio,omitempty"`
	Year             string     `xml:"year,omitempty"`
	Rating           string     `xml:"rating,omitempty"`
	Votes            string     `xml:"votes,omitempty"`
	UniqueIDs        []uniqueID `xml:"uniqueid"`
	Genres           []string   `xml:"genre"`
	Directors        []string   `xml:"director"`
	Credits          []string   `xml:"credits"`
	Actors           []actor    `xml:"actor"`
}

type showDoc struct {
	XMLName       xml.Name   `xml:"tvshow"`
	Title         string     `xml:"title,omitempty"`
	OriginalTitle string     `xml:"originaltitle,omitempty"`
	SortTitle     string     `xml:"sorttitle,omitempty"`
	Plot          string     `xml:"plot,omitempty"`
	Studio        string     `xml:"studio,omitempty"`
	Status        string     `xml:"status,omitempty"`
	Year          string     `xml:"year,omitempty"`
	Premiered     string     `xml:"premiered,omitempty"`
	Rating        string     `xml:"rating,omitempty"`
	Votes         string     `xml:"votes,omitempty"`
	UniqueIDs     []uniqueID `xml:"uniqueid"`
	Genres        []string   `xml:"genre"`
	Languages     []string   `xml:"language"`
	Directors     []string   `xml:"director"`
	Actors        []actor    `xml:"actor"`
}

// WriteMovie generates the <movie> sidecar for a movie file
func WriteMovie(meta *models.MediaMetadata, originalFilename, path string) error {
	doc := movieDoc{
		OriginalFilename: originalFilename,
		Title:            meta.Title,
		OriginalTitle:    meta.OriginalTitle,
		SortTitle:        meta.Title,
		Rating:           formatFloat(meta.VoteAverage),
		Year:             meta.Year,
		Votes:            formatInt(meta.VoteCount),
		Plot:             meta.Overview,
		Tagline:          meta.Tagline,
		Runtime:          formatInt(meta.RuntimeMinutes),
		Premiered:        meta.ReleaseDate,
		Studio:           meta.Studio,
		UniqueIDs:        uniqueIDs(meta),
		Genres:           meta.Genres,
		Languages:        meta.SpokenLanguages,
		Tags:             meta.Keywords,
		Directors:        personNames(meta.Directors),
		Credits:          personNames(meta.Writers),
		Actors:           actors(meta.Cast),
		Trailer:          meta.TrailerURI,
	}
	if meta.Collection != nil {
		doc.Set = &setBlock{
			Name:      meta.Collection.Name,
			TMDBColID: strconv.Itoa(meta.Collection.ID),
		}
	}
	return writeDocument(doc, path)
}

// WriteEpisode generates the <episodedetails> sidecar for one episode
// file. Episode overlay fields override show-level values; without an
// overlay the document degrades to show-level title and plot.
func WriteEpisode(meta *models.MediaMetadata, identity models.MediaIdentity, originalFilename, path string) error {
	title := meta.Title
	if marker := identity.SeasonEpisode(); marker != "" {
		title = fmt.Sprintf("%s %s", meta.Title, marker)
	}
	doc := episodeDoc{
		OriginalFilename: originalFilename,
		ShowTitle:        meta.Title,
		Season:           identity.Season,
		Episode:          identity.Episode,
		Title:            title,
		Plot:             meta.Overview,
		Runtime:          formatInt(meta.RuntimeMinutes),
		Premiered:        meta.ReleaseDate,
		Aired:            meta.ReleaseDate,
		Studio:           meta.Studio,
		Year:             meta.Year,
		Rating:           formatFloat(meta.VoteAverage),
		Votes:            formatInt(meta.VoteCount),
		UniqueIDs:        uniqueIDs(meta),
		Genres:           meta.Genres,
		Directors:        personNames(meta.Directors),
		Credits:          personNames(meta.Writers),
		Actors:           actors(meta.Cast),
	}

	if ep := meta.Episode; ep != nil {
		if ep.Title != "" {
			doc.Title = ep.Title
		}
		if ep.Overview != "" {
			doc.Plot = ep.Overview
		}
		if ep.AirDate != "" {
			doc.Aired = ep.AirDate
		}
		if len(ep.Directors) > 0 {
			doc.Directors = personNames(ep.Directors)
		}
		doc.Actors = append(doc.Actors, actors(ep.GuestStars)...)
	}

	return writeDocument(doc, path)
}

// WriteShow generates the show-level tvshow.nfo summary
func WriteShow(meta *models.MediaMetadata, path string) error {
	doc := showDoc{
		Title:         meta.Title,
		OriginalTitle: meta.OriginalTitle,
		SortTitle:     meta.Title,
		Plot:          meta.Overview,
		Studio:        meta.Studio,
		Status:        meta.Status,
		Year:          meta.Year,
		Premiered:     meta.ReleaseDate,
		Rating:        formatFloat(meta.VoteAverage),
		Votes:         formatInt(meta.VoteCount),
		UniqueIDs:     uniqueIDs(meta),
		Genres:        meta.Genres,
		Languages:     meta.SpokenLanguages,
		Directors:     personNames(meta.Directors),
		Actors:        actors(meta.Cast),
	}
	return writeDocument(doc, path)
}

// writeDocument marshals the document and writes it atomically: the
// bytes land in a temp file in the target directory which is then
// renamed over the destination, so an interrupted write can never be
// mistaken for a complete sidecar.
func writeDocument(doc interface{}, path string) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	content := append([]byte(xml.Header), body...)
	content = append(content, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".nfo-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// uniqueIDs builds the identifier block: catalog id first and marked
// default, external (IMDb) id after when present.
func uniqueIDs(meta *models.MediaMetadata) []uniqueID {
	var ids []uniqueID
	if meta.CatalogID != 0 {
		ids = append(ids, uniqueID{Type: "tmdb", Default: true, Value: strconv.Itoa(meta.CatalogID)})
	}
	if meta.IMDBID != "" {
		ids = append(ids, uniqueID{Type: "imdb", Value: meta.IMDBID})
	}
	return ids
}

func personNames(people []models.Person) []string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

func actors(people []models.Person) []actor {
	out := make([]actor, 0, len(people))
	for _, p := range people {
		out = append(out, actor{Name: p.Name, Role: p.Role})
	}
	return out
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

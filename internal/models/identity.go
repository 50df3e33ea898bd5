package models

// MediaIdentity is the structured identity extracted from a filename.
// Season and Episode are kept as strings exactly as matched so that
// leading zeros survive re-templating (S01E7 stays season "01", episode "7").
type MediaIdentity struct {
	Kind    MediaKind
	Title   string
	Year    string // movies only, may be empty
	Season  string // episodes only
	Episode string // episodes only
}

// SeasonEpisode returns the combined SxxEyy marker for episode identities
func (id MediaIdentity) SeasonEpisode() string {
	if id.Kind != KindEpisode {
		return ""
	}
	return "S" + id.Season + "E" + id.Episode
}

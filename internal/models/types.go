package models

// MediaKind is the identity kind resolved from a filename
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindEpisode MediaKind = "episode"
	KindUnknown MediaKind = "unknown"
)

// MediaType is the catalog-facing media type (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "tv"
)

// RunStatus represents the run-level outcome of a scan
type RunStatus string

const (
	RunStatusIdle               RunStatus = "idle"
	RunStatusRunning            RunStatus = "running"
	RunStatusCompleted          RunStatus = "completed"
	RunStatusMissingAPIKey      RunStatus = "missing_api_key"
	RunStatusCatalogUnreachable RunStatus = "catalog_unreachable"
)

package models

// VideoID is the canonical 11-character video identifier.
// Values are only produced by utils.ExtractVideoID.
type VideoID string

func (id VideoID) String() string { return string(id) }

// WatchURL is the canonical watch page used by external services.
func (id VideoID) WatchURL() string {
	return "https://youtube.com/watch?v=" + string(id)
}

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

type BitrateUnit string

const (
	Mbps BitrateUnit = "Mbps"
	Kbps BitrateUnit = "kbps"
)

// VideoMetadata is either fully populated from the metadata source or the
// fallback record. It is never merged.
type VideoMetadata struct {
	Title           string
	Author          string
	DurationSeconds int
}

// FormatDescriptor is one downloadable quality/container combination.
type FormatDescriptor struct {
	Type            MediaType
	QualityLabel    string
	ResolutionTag   string
	Container       string
	Bitrate         float64
	BitrateUnit     BitrateUnit
	EstimatedSizeMB float64
	ResolutionURL   string
	HasAudio        bool
}

// DownloadService is an external page that can convert the video by ID.
type DownloadService struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Meta is the wire form of the metadata block.
type Meta struct {
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	VideoID           VideoID `json:"videoId"`
	Duration          int     `json:"duration"`
	DurationFormatted string  `json:"duration_formatted"`
	Thumbnail         string  `json:"thumbnail"`
	ThumbnailSD       string  `json:"thumbnail_sd"`
	ThumbnailHQ       string  `json:"thumbnail_hq,omitempty"`
}

// Format is the wire form of a FormatDescriptor.
type Format struct {
	Type       MediaType `json:"type"`
	Quality    string    `json:"quality"`
	Resolution string    `json:"resolution"`
	Size       string    `json:"size"`
	SizeMB     float64   `json:"size_mb"`
	URL        string    `json:"url"`
	Container  string    `json:"container"`
	HasAudio   bool      `json:"hasAudio"`
	Bitrate    string    `json:"bitrate"`
}

// ResponseEnvelope is the body of a successful resolve call.
type ResponseEnvelope struct {
	Success          bool              `json:"success"`
	Degraded         bool              `json:"degraded"`
	Meta             Meta              `json:"meta"`
	Formats          []Format          `json:"formats"`
	DownloadServices []DownloadService `json:"download_services"`
	Note             string            `json:"note,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

package providers

import (
	"context"
	"net/http"

	"github.com/imbecility/yt-resolver/pkg/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MetadataProvider never fails: on any error it returns the fallback record.
type MetadataProvider interface {
	Fetch(ctx context.Context, id models.VideoID) models.VideoMetadata
}

// ResolutionProvider builds the external URL a format descriptor points to.
// ButtonURL must be a pure function of its arguments.
type ResolutionProvider interface {
	Name() string
	ButtonURL(id models.VideoID, container, quality string) string
}

// Service is an external page listed under download_services.
type Service interface {
	Name() string
	PageURL(id models.VideoID) string
}

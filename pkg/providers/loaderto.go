package providers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/imbecility/yt-resolver/pkg/models"
)

const DefaultLoaderToBase = "https://loader.to/api/button/"

// LoaderTo fills the loader.to button API template. Audio links carry no
// quality parameter, the service picks the bitrate itself.
type LoaderTo struct {
	BaseURL string
}

func (p *LoaderTo) Name() string { return "loader.to" }

func (p *LoaderTo) ButtonURL(id models.VideoID, container, quality string) string {
	base := p.BaseURL
	if base == "" {
		base = DefaultLoaderToBase
	}
	// the watch URL is embedded unescaped, the service expects it that way
	u := fmt.Sprintf("%s?url=%s", base, id.WatchURL())

	switch strings.ToLower(container) {
	case "mp4":
		return u + "&f=mp4&quality=" + url.QueryEscape(quality)
	case "mp3":
		return u + "&f=mp3"
	default:
		return u
	}
}

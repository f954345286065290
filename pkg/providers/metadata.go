package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/mo"

	"github.com/imbecility/yt-resolver/pkg/models"
)

const (
	DefaultOembedEndpoint  = "https://www.youtube.com/oembed"
	DefaultMetadataTimeout = 5 * time.Second

	FallbackTitle  = "YouTube Video"
	FallbackAuthor = "YouTube Creator"
	// oEmbed carries no duration, every record gets this placeholder.
	PlaceholderDuration = 180
)

// FallbackMetadata is returned whenever the oEmbed call fails.
func FallbackMetadata() models.VideoMetadata {
	return models.VideoMetadata{
		Title:           FallbackTitle,
		Author:          FallbackAuthor,
		DurationSeconds: PlaceholderDuration,
	}
}

// Oembed fetches title and author from an oEmbed endpoint in a single attempt.
type Oembed struct {
	Client   HTTPClient
	Endpoint string
	Timeout  time.Duration
}

func (p *Oembed) Fetch(ctx context.Context, id models.VideoID) models.VideoMetadata {
	md, err := p.fetch(ctx, id)
	if err != nil {
		slog.Warn("oEmbed metadata unavailable, using fallback", "vid", id, "err", err)
		return FallbackMetadata()
	}
	return md
}

func (p *Oembed) fetch(ctx context.Context, id models.VideoID) (models.VideoMetadata, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultMetadataTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(id), nil)
	if err != nil {
		return models.VideoMetadata{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return models.VideoMetadata{}, err
	}
	defer func(Body io.ReadCloser) {
		bcerr := Body.Close()
		if bcerr != nil {
			slog.Warn("failed to close response body", "err", bcerr)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return models.VideoMetadata{}, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var data struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if jderr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&data); jderr != nil {
		return models.VideoMetadata{}, fmt.Errorf("decode oembed: %w", jderr)
	}

	slog.Debug("oEmbed metadata fetched", "vid", id, "title", data.Title)

	return models.VideoMetadata{
		Title:           mo.EmptyableToOption(data.Title).OrElse(FallbackTitle),
		Author:          mo.EmptyableToOption(data.AuthorName).OrElse(FallbackAuthor),
		DurationSeconds: PlaceholderDuration,
	}, nil
}

func (p *Oembed) requestURL(id models.VideoID) string {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultOembedEndpoint
	}
	q := url.Values{}
	q.Set("url", id.WatchURL())
	q.Set("format", "json")
	return endpoint + "?" + q.Encode()
}

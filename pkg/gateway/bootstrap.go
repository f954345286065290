package gateway

import (
	"fmt"
	"time"

	"github.com/imbecility/yt-resolver/pkg/catalog"
	"github.com/imbecility/yt-resolver/pkg/client"
	"github.com/imbecility/yt-resolver/pkg/downloader"
	"github.com/imbecility/yt-resolver/pkg/logger"
	"github.com/imbecility/yt-resolver/pkg/metrics"
	"github.com/imbecility/yt-resolver/pkg/providers"
)

// Config represents the configuration for gateway initialization.
// It is built once at startup and only read afterwards.
type Config struct {
	Server   ServerConfig
	Metadata MetadataConfig
	Client   client.Options
	// ResolverBaseURL is the loader.to button endpoint (defaults to DefaultLoaderToBase).
	ResolverBaseURL string
	// ChunkSize is the proxy relay buffer in bytes (defaults to 32KB).
	ChunkSize int
	Log       logger.Options
	Ladders   catalog.Ladders
}

type ServerConfig struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type MetadataConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// WithDefaults fills every zero field.
func (c Config) WithDefaults() Config {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Metadata.Endpoint == "" {
		c.Metadata.Endpoint = providers.DefaultOembedEndpoint
	}
	if c.Metadata.Timeout <= 0 {
		c.Metadata.Timeout = providers.DefaultMetadataTimeout
	}
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = client.DefaultTimeout
	}
	if c.ResolverBaseURL == "" {
		c.ResolverBaseURL = providers.DefaultLoaderToBase
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = downloader.DefaultChunkSize
	}
	if len(c.Ladders.Video) == 0 {
		c.Ladders.Video = catalog.DefaultVideoLadder()
	}
	if len(c.Ladders.Audio) == 0 {
		c.Ladders.Audio = catalog.DefaultAudioLadder()
	}
	return c
}

// New creates a ready-to-use Service instance with all necessary dependencies.
func New(cfg Config) (*Service, error) {
	cfg = cfg.WithDefaults()

	logger.SetupGlobal(cfg.Log)

	httpClient, err := client.NewHttpClient(cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to init http client: %w", err)
	}

	resolver := &providers.LoaderTo{BaseURL: cfg.ResolverBaseURL}

	builder, err := catalog.NewBuilder(cfg.Ladders, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}

	md := &providers.Oembed{
		Client:   httpClient,
		Endpoint: cfg.Metadata.Endpoint,
		Timeout:  cfg.Metadata.Timeout,
	}

	svc := NewService(md, builder, providers.DefaultServices(), metrics.New())
	svc.Fallback = resolver
	svc.Downloader = &downloader.Downloader{
		Client:    httpClient,
		ChunkSize: cfg.ChunkSize,
	}
	return svc, nil
}

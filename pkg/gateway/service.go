package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/imbecility/yt-resolver/pkg/downloader"
	"github.com/imbecility/yt-resolver/pkg/metrics"
	"github.com/imbecility/yt-resolver/pkg/models"
	"github.com/imbecility/yt-resolver/pkg/providers"
	"github.com/imbecility/yt-resolver/pkg/utils"
)

const FallbackNote = "Using fallback data. Online services will be used for download."

const thumbnailBase = "https://img.youtube.com/vi/"

// CatalogBuilder produces the ordered format list for an ID.
type CatalogBuilder interface {
	Build(id models.VideoID, durationSeconds int) ([]models.FormatDescriptor, error)
}

// InternalError is a failure after the ID was extracted. It is turned into
// the fallback envelope and never reaches the caller.
type InternalError struct {
	VideoID models.VideoID
	Stage   string
	Err     error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("resolve %s: %s: %v", e.VideoID, e.Stage, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

type Service struct {
	Metadata providers.MetadataProvider
	Catalog  CatalogBuilder
	Services []providers.Service
	// Fallback fills the URLs of the static fallback formats.
	Fallback providers.ResolutionProvider
	Metrics  *metrics.Recorder

	// Downloader opens proxy upstreams with the same client as metadata.
	Downloader *downloader.Downloader
}

func NewService(md providers.MetadataProvider, cb CatalogBuilder, services []providers.Service, rec *metrics.Recorder) *Service {
	if services == nil {
		services = providers.DefaultServices()
	}
	return &Service{
		Metadata: md,
		Catalog:  cb,
		Services: services,
		Fallback: &providers.LoaderTo{},
		Metrics:  rec,
	}
}

// Resolve returns a ValidationError for unusable input. Any later failure
// yields the degraded fallback envelope with a nil error.
func (s *Service) Resolve(ctx context.Context, rawURL string) (*models.ResponseEnvelope, error) {
	id, err := utils.ExtractVideoID(rawURL)
	if err != nil {
		s.Metrics.Resolve(metrics.OutcomeInvalid)
		return nil, err
	}

	env, err := s.assemble(ctx, id)
	if err != nil {
		slog.Warn("Resolve pipeline failed, serving fallback", "vid", id, "err", err)
		s.Metrics.Resolve(metrics.OutcomeDegraded)
		return s.FallbackEnvelope(id), nil
	}

	s.Metrics.Resolve(metrics.OutcomeOK)
	return env, nil
}

func (s *Service) assemble(ctx context.Context, id models.VideoID) (env *models.ResponseEnvelope, err error) {
	stage := "metadata"
	defer func() {
		if r := recover(); r != nil {
			env = nil
			err = &InternalError{VideoID: id, Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	md := s.Metadata.Fetch(ctx, id)
	slog.Debug("Metadata acquired", "vid", id, "title", md.Title)

	stage = "catalog"
	formats, err := s.Catalog.Build(id, md.DurationSeconds)
	if err != nil {
		return nil, &InternalError{VideoID: id, Stage: stage, Err: err}
	}
	if len(formats) == 0 {
		return nil, &InternalError{VideoID: id, Stage: stage, Err: errors.New("empty catalog")}
	}

	return &models.ResponseEnvelope{
		Success:          true,
		Meta:             buildMeta(id, md),
		Formats:          lo.Map(formats, func(f models.FormatDescriptor, _ int) models.Format { return f.Wire() }),
		DownloadServices: providers.ListServices(s.Services, id),
	}, nil
}

// FallbackEnvelope is the static response for a valid ID whose pipeline failed.
func (s *Service) FallbackEnvelope(id models.VideoID) *models.ResponseEnvelope {
	rp := s.Fallback
	if rp == nil {
		rp = &providers.LoaderTo{}
	}
	md := models.VideoMetadata{
		Title:           providers.FallbackTitle,
		Author:          providers.FallbackAuthor,
		DurationSeconds: providers.PlaceholderDuration,
	}

	formats := []models.FormatDescriptor{
		{
			Type:            models.MediaVideo,
			QualityLabel:    "720p",
			ResolutionTag:   "720p",
			Container:       "mp4",
			Bitrate:         2,
			BitrateUnit:     models.Mbps,
			EstimatedSizeMB: 25,
			ResolutionURL:   rp.ButtonURL(id, "mp4", "720"),
			HasAudio:        true,
		},
		{
			Type:            models.MediaAudio,
			QualityLabel:    "MP3 128kbps",
			ResolutionTag:   "Audio",
			Container:       "mp3",
			Bitrate:         128,
			BitrateUnit:     models.Kbps,
			EstimatedSizeMB: 5,
			ResolutionURL:   rp.ButtonURL(id, "mp3", "128kbps"),
			HasAudio:        true,
		},
	}

	meta := buildMeta(id, md)
	// the degraded payload only carries the two main thumbnails
	meta.ThumbnailHQ = ""

	return &models.ResponseEnvelope{
		Success:          true,
		Degraded:         true,
		Meta:             meta,
		Formats:          lo.Map(formats, func(f models.FormatDescriptor, _ int) models.Format { return f.Wire() }),
		DownloadServices: providers.ListServices(s.Services, id),
		Note:             FallbackNote,
	}
}

func buildMeta(id models.VideoID, md models.VideoMetadata) models.Meta {
	base := thumbnailBase + id.String()
	return models.Meta{
		Title:             md.Title,
		Author:            md.Author,
		VideoID:           id,
		Duration:          md.DurationSeconds,
		DurationFormatted: utils.FormatDuration(md.DurationSeconds),
		Thumbnail:         base + "/maxresdefault.jpg",
		ThumbnailSD:       base + "/sddefault.jpg",
		ThumbnailHQ:       base + "/hqdefault.jpg",
	}
}

package catalog

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/imbecility/yt-resolver/pkg/models"
	"github.com/imbecility/yt-resolver/pkg/providers"
	"github.com/imbecility/yt-resolver/pkg/utils"
)

// DefaultDuration replaces a zero duration before size estimation.
const DefaultDuration = 180

const (
	videoContainer = "mp4"
	audioContainer = "mp3"
)

// Builder turns an ID and a duration into the ordered format catalog.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	ladders  Ladders
	resolver providers.ResolutionProvider
}

func NewBuilder(ladders Ladders, resolver providers.ResolutionProvider) (*Builder, error) {
	if err := ladders.Validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = &providers.LoaderTo{}
	}
	return &Builder{ladders: ladders.clone(), resolver: resolver}, nil
}

// Build returns video entries in ladder order followed by audio entries.
func (b *Builder) Build(id models.VideoID, durationSeconds int) ([]models.FormatDescriptor, error) {
	if !utils.IsValidID(id) {
		return nil, fmt.Errorf("build catalog: malformed video id %q", id)
	}
	if durationSeconds <= 0 {
		durationSeconds = DefaultDuration
	}

	video := lo.Map(b.ladders.Video, func(r Rung, _ int) models.FormatDescriptor {
		return models.FormatDescriptor{
			Type:            models.MediaVideo,
			QualityLabel:    r.Quality,
			ResolutionTag:   r.Resolution,
			Container:       videoContainer,
			Bitrate:         r.Bitrate,
			BitrateUnit:     models.Mbps,
			EstimatedSizeMB: VideoSizeMB(r.Bitrate, durationSeconds),
			ResolutionURL:   b.resolver.ButtonURL(id, videoContainer, r.Resolution),
			HasAudio:        true,
		}
	})

	audio := lo.Map(b.ladders.Audio, func(r Rung, _ int) models.FormatDescriptor {
		return models.FormatDescriptor{
			Type:            models.MediaAudio,
			QualityLabel:    "MP3 " + r.Quality,
			ResolutionTag:   lo.Ternary(r.Resolution == "", "Audio", r.Resolution),
			Container:       audioContainer,
			Bitrate:         r.Bitrate,
			BitrateUnit:     models.Kbps,
			EstimatedSizeMB: AudioSizeMB(r.Bitrate, durationSeconds),
			ResolutionURL:   b.resolver.ButtonURL(id, audioContainer, r.Quality),
			HasAudio:        true,
		}
	})

	return append(video, audio...), nil
}

// VideoSizeMB estimates megabytes for a Mbps stream.
func VideoSizeMB(bitrateMbps float64, durationSeconds int) float64 {
	return Round1(bitrateMbps * float64(durationSeconds) / 8)
}

// AudioSizeMB estimates megabytes for a kbps stream.
func AudioSizeMB(bitrateKbps float64, durationSeconds int) float64 {
	return Round1(bitrateKbps * float64(durationSeconds) / (8 * 1024))
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

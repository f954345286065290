package catalog

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Rung is one quality tier. Bitrate is in Mbps for video and kbps for audio.
type Rung struct {
	Quality    string  `mapstructure:"quality"`
	Resolution string  `mapstructure:"resolution"`
	Bitrate    float64 `mapstructure:"bitrate"`
}

// Ladders holds both tiers lists, lowest quality first.
type Ladders struct {
	Video []Rung `mapstructure:"video"`
	Audio []Rung `mapstructure:"audio"`
}

func DefaultVideoLadder() []Rung {
	return []Rung{
		{Quality: "144p", Resolution: "144p", Bitrate: 0.1},
		{Quality: "360p", Resolution: "360p", Bitrate: 0.5},
		{Quality: "480p", Resolution: "480p", Bitrate: 1},
		{Quality: "720p", Resolution: "720p", Bitrate: 2},
		{Quality: "1080p", Resolution: "1080p", Bitrate: 4},
		{Quality: "4K", Resolution: "2160p", Bitrate: 8},
	}
}

func DefaultAudioLadder() []Rung {
	return []Rung{
		{Quality: "64kbps", Resolution: "Audio", Bitrate: 64},
		{Quality: "128kbps", Resolution: "Audio", Bitrate: 128},
		{Quality: "192kbps", Resolution: "Audio", Bitrate: 192},
		{Quality: "320kbps", Resolution: "Audio", Bitrate: 320},
	}
}

func DefaultLadders() Ladders {
	return Ladders{Video: DefaultVideoLadder(), Audio: DefaultAudioLadder()}
}

var ErrInvalidLadder = errors.New("invalid quality ladder")

// Validate checks that both ladders are non-empty and strictly ascending by bitrate.
func (l Ladders) Validate() error {
	if err := validateRungs("video", l.Video); err != nil {
		return err
	}
	return validateRungs("audio", l.Audio)
}

func validateRungs(kind string, rungs []Rung) error {
	if len(rungs) == 0 {
		return fmt.Errorf("%w: %s ladder is empty", ErrInvalidLadder, kind)
	}
	if bad, ok := lo.Find(rungs, func(r Rung) bool { return r.Quality == "" || r.Bitrate <= 0 }); ok {
		return fmt.Errorf("%w: %s rung %q needs a quality and a positive bitrate", ErrInvalidLadder, kind, bad.Quality)
	}
	for i := 1; i < len(rungs); i++ {
		if rungs[i].Bitrate <= rungs[i-1].Bitrate {
			return fmt.Errorf("%w: %s ladder not ascending at %q", ErrInvalidLadder, kind, rungs[i].Quality)
		}
	}
	return nil
}

func (l Ladders) clone() Ladders {
	return Ladders{
		Video: append([]Rung(nil), l.Video...),
		Audio: append([]Rung(nil), l.Audio...),
	}
}

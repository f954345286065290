package catalog

import (
	"errors"
	"reflect"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/imbecility/yt-resolver/pkg/models"
	"github.com/imbecility/yt-resolver/pkg/providers"
)

func newDefaultBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(DefaultLadders(), &providers.LoaderTo{})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func TestBuild(t *testing.T) {
	b := newDefaultBuilder(t)

	Convey("Given the default ladders", t, func() {
		Convey("When building a catalog for 180 seconds", func() {
			formats, err := b.Build("dQw4w9WgXcQ", 180)
			So(err, ShouldBeNil)

			Convey("Then it has six video and four audio entries", func() {
				So(len(formats), ShouldEqual, 10)
			})

			Convey("Then video entries come first, ascending by bitrate", func() {
				for i := 0; i < 6; i++ {
					So(formats[i].Type, ShouldEqual, models.MediaVideo)
					So(formats[i].BitrateUnit, ShouldEqual, models.Mbps)
					if i > 0 {
						So(formats[i].Bitrate, ShouldBeGreaterThan, formats[i-1].Bitrate)
					}
				}
			})

			Convey("Then audio entries follow, ascending by bitrate", func() {
				for i := 6; i < 10; i++ {
					So(formats[i].Type, ShouldEqual, models.MediaAudio)
					So(formats[i].BitrateUnit, ShouldEqual, models.Kbps)
					if i > 6 {
						So(formats[i].Bitrate, ShouldBeGreaterThan, formats[i-1].Bitrate)
					}
				}
			})

			Convey("Then sizes follow bitrate times duration", func() {
				want := []float64{2.3, 11.3, 22.5, 45, 90, 180, 1.4, 2.8, 4.2, 7}
				for i, f := range formats {
					So(f.EstimatedSizeMB, ShouldEqual, want[i])
				}
			})

			Convey("Then the 128kbps entry is 2.8 MB", func() {
				So(formats[7].QualityLabel, ShouldEqual, "MP3 128kbps")
				So(formats[7].EstimatedSizeMB, ShouldEqual, 2.8)
			})

			Convey("Then 4K points at the 2160p resolution", func() {
				So(formats[5].QualityLabel, ShouldEqual, "4K")
				So(formats[5].ResolutionTag, ShouldEqual, "2160p")
				So(formats[5].ResolutionURL, ShouldEqual,
					"https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp4&quality=2160p")
			})

			Convey("Then audio entries use the mp3 template", func() {
				So(formats[6].Container, ShouldEqual, "mp3")
				So(formats[6].ResolutionTag, ShouldEqual, "Audio")
				So(formats[6].ResolutionURL, ShouldEqual,
					"https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp3")
			})

			Convey("Then every entry has audio", func() {
				for _, f := range formats {
					So(f.HasAudio, ShouldBeTrue)
				}
			})
		})

		Convey("When building twice with the same arguments", func() {
			first, err1 := b.Build("dQw4w9WgXcQ", 213)
			second, err2 := b.Build("dQw4w9WgXcQ", 213)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then the catalogs are identical", func() {
				So(reflect.DeepEqual(first, second), ShouldBeTrue)
				for i := range first {
					So(first[i].ResolutionURL, ShouldEqual, second[i].ResolutionURL)
				}
			})
		})

		Convey("When the duration is zero or negative", func() {
			zero, err := b.Build("dQw4w9WgXcQ", 0)
			So(err, ShouldBeNil)
			negative, err := b.Build("dQw4w9WgXcQ", -30)
			So(err, ShouldBeNil)
			standard, err := b.Build("dQw4w9WgXcQ", 180)
			So(err, ShouldBeNil)

			Convey("Then it is treated as 180 seconds", func() {
				So(reflect.DeepEqual(zero, standard), ShouldBeTrue)
				So(reflect.DeepEqual(negative, standard), ShouldBeTrue)
			})
		})

		Convey("When the id is malformed", func() {
			formats, err := b.Build("not-an-id", 180)

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
				So(formats, ShouldBeNil)
			})
		})
	})
}

func TestNewBuilder(t *testing.T) {
	Convey("NewBuilder", t, func() {
		Convey("Rejects an empty audio ladder", func() {
			_, err := NewBuilder(Ladders{Video: DefaultVideoLadder()}, nil)
			So(errors.Is(err, ErrInvalidLadder), ShouldBeTrue)
		})

		Convey("Rejects a descending ladder", func() {
			l := DefaultLadders()
			l.Video[0], l.Video[1] = l.Video[1], l.Video[0]
			_, err := NewBuilder(l, nil)
			So(errors.Is(err, ErrInvalidLadder), ShouldBeTrue)
		})

		Convey("Rejects a zero bitrate", func() {
			l := DefaultLadders()
			l.Audio[0].Bitrate = 0
			_, err := NewBuilder(l, nil)
			So(errors.Is(err, ErrInvalidLadder), ShouldBeTrue)
		})

		Convey("Does not share the caller's slices", func() {
			l := DefaultLadders()
			b, err := NewBuilder(l, nil)
			So(err, ShouldBeNil)
			l.Video[0].Quality = "mutated"

			formats, err := b.Build("dQw4w9WgXcQ", 180)
			So(err, ShouldBeNil)
			So(formats[0].QualityLabel, ShouldEqual, "144p")
		})

		Convey("Accepts a custom ladder", func() {
			b, err := NewBuilder(Ladders{
				Video: []Rung{{Quality: "720p", Resolution: "720p", Bitrate: 2}},
				Audio: []Rung{{Quality: "128kbps", Bitrate: 128}},
			}, nil)
			So(err, ShouldBeNil)

			formats, err := b.Build("dQw4w9WgXcQ", 60)
			So(err, ShouldBeNil)
			So(len(formats), ShouldEqual, 2)
			So(formats[0].EstimatedSizeMB, ShouldEqual, 15.0)
			So(formats[1].ResolutionTag, ShouldEqual, "Audio")
		})
	})
}

func TestSizeEstimates(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64, int) float64
		bitrate  float64
		duration int
		want     float64
	}{
		{name: "audio 128kbps 180s", fn: AudioSizeMB, bitrate: 128, duration: 180, want: 2.8},
		{name: "audio 320kbps 600s", fn: AudioSizeMB, bitrate: 320, duration: 600, want: 23.4},
		{name: "video 2Mbps 180s", fn: VideoSizeMB, bitrate: 2, duration: 180, want: 45},
		{name: "video 1Mbps 61s", fn: VideoSizeMB, bitrate: 1, duration: 61, want: 7.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.bitrate, tt.duration); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/imbecility/yt-resolver/pkg/catalog"
)

const yamlConfig = `
server:
  port: 9000
  shutdown_timeout: 3s
metadata:
  timeout: 2s
log:
  json: true
catalog:
  video:
    - quality: 360p
      resolution: 360p
      bitrate: 0.5
    - quality: 720p
      resolution: 720p
      bitrate: 2
`

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("host", "", "")
	flags.Bool("debug", false, "")
	flags.Bool("log-json", false, "")
	return flags
}

func TestLoad(t *testing.T) {
	Convey("Given an empty filesystem", t, func() {
		fs := afero.NewMemMapFs()

		Convey("When loading without a config file", func() {
			cfg, err := Load(fs, nil, "")
			So(err, ShouldBeNil)

			Convey("Then defaults apply", func() {
				So(cfg.Server.Port, ShouldEqual, 8080)
				So(cfg.Server.Host, ShouldEqual, "")
				So(cfg.Server.ReadHeaderTimeout, ShouldEqual, 10*time.Second)
				So(cfg.Server.ShutdownTimeout, ShouldEqual, 15*time.Second)
				So(cfg.Metadata.Endpoint, ShouldEqual, "https://www.youtube.com/oembed")
				So(cfg.Metadata.Timeout, ShouldEqual, 5*time.Second)
				So(cfg.Client.Timeout, ShouldEqual, 600*time.Second)
				So(cfg.Client.InsecureSkipVerify, ShouldBeTrue)
				So(cfg.ResolverBaseURL, ShouldEqual, "https://loader.to/api/button/")
				So(cfg.ChunkSize, ShouldEqual, 32768)
				So(cfg.Log.JSON, ShouldBeFalse)
				So(cfg.Ladders, ShouldResemble, catalog.DefaultLadders())
			})
		})

		Convey("When an explicit config file is missing", func() {
			_, err := Load(fs, nil, "/etc/yt-resolver/yt-resolver.yaml")

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a YAML config file", t, func() {
		// empty values count as unset
		t.Setenv("YTRESOLVER_SERVER_PORT", "")
		t.Setenv("YTRESOLVER_METADATA_ENDPOINT", "")
		fs := afero.NewMemMapFs()
		So(afero.WriteFile(fs, "/etc/yt-resolver/yt-resolver.yaml", []byte(yamlConfig), 0o644), ShouldBeNil)

		Convey("When loading it", func() {
			cfg, err := Load(fs, nil, "/etc/yt-resolver/yt-resolver.yaml")
			So(err, ShouldBeNil)

			Convey("Then file values override defaults", func() {
				So(cfg.Server.Port, ShouldEqual, 9000)
				So(cfg.Server.ShutdownTimeout, ShouldEqual, 3*time.Second)
				So(cfg.Metadata.Timeout, ShouldEqual, 2*time.Second)
				So(cfg.Log.JSON, ShouldBeTrue)
			})

			Convey("Then the video ladder comes from the file and audio keeps its default", func() {
				So(cfg.Ladders.Video, ShouldResemble, []catalog.Rung{
					{Quality: "360p", Resolution: "360p", Bitrate: 0.5},
					{Quality: "720p", Resolution: "720p", Bitrate: 2},
				})
				So(cfg.Ladders.Audio, ShouldResemble, catalog.DefaultAudioLadder())
			})
		})

		Convey("When the environment sets the port", func() {
			t.Setenv("YTRESOLVER_SERVER_PORT", "9100")
			t.Setenv("YTRESOLVER_METADATA_ENDPOINT", "http://127.0.0.1:9999/oembed")
			cfg, err := Load(fs, nil, "/etc/yt-resolver/yt-resolver.yaml")
			So(err, ShouldBeNil)

			Convey("Then env wins over the file", func() {
				So(cfg.Server.Port, ShouldEqual, 9100)
				So(cfg.Metadata.Endpoint, ShouldEqual, "http://127.0.0.1:9999/oembed")
			})
		})

		Convey("When a flag sets the port", func() {
			t.Setenv("YTRESOLVER_SERVER_PORT", "9100")
			flags := newFlags()
			So(flags.Parse([]string{"--port", "7000", "--debug"}), ShouldBeNil)
			cfg, err := Load(fs, flags, "/etc/yt-resolver/yt-resolver.yaml")
			So(err, ShouldBeNil)

			Convey("Then the flag wins over env and file", func() {
				So(cfg.Server.Port, ShouldEqual, 7000)
				So(cfg.Log.Debug, ShouldBeTrue)
			})
		})

		Convey("When flags are registered but not set", func() {
			cfg, err := Load(fs, newFlags(), "/etc/yt-resolver/yt-resolver.yaml")
			So(err, ShouldBeNil)

			Convey("Then the file value is kept", func() {
				So(cfg.Server.Port, ShouldEqual, 9000)
			})
		})
	})

	Convey("Given an out of range port", t, func() {
		t.Setenv("YTRESOLVER_SERVER_PORT", "70000")

		Convey("Then loading fails", func() {
			_, err := Load(afero.NewMemMapFs(), nil, "")
			So(err, ShouldNotBeNil)
		})
	})
}

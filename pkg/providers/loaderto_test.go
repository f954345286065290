package providers

import (
	"testing"

	"github.com/imbecility/yt-resolver/pkg/models"
)

func TestLoaderToButtonURL(t *testing.T) {
	p := &LoaderTo{}
	tests := []struct {
		name      string
		container string
		quality   string
		want      string
	}{
		{
			name:      "video carries quality",
			container: "mp4",
			quality:   "720p",
			want:      "https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp4&quality=720p",
		},
		{
			name:      "4k uses resolution tag",
			container: "mp4",
			quality:   "2160p",
			want:      "https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp4&quality=2160p",
		},
		{
			name:      "audio ignores quality",
			container: "mp3",
			quality:   "320kbps",
			want:      "https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp3",
		},
		{
			name:      "unknown container",
			container: "webm",
			quality:   "720p",
			want:      "https://loader.to/api/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ButtonURL("dQw4w9WgXcQ", tt.container, tt.quality)
			if got != tt.want {
				t.Fatalf("ButtonURL() = %q, want %q", got, tt.want)
			}
			if again := p.ButtonURL("dQw4w9WgXcQ", tt.container, tt.quality); again != got {
				t.Fatalf("ButtonURL() not stable: %q vs %q", got, again)
			}
		})
	}
}

func TestLoaderToCustomBase(t *testing.T) {
	p := &LoaderTo{BaseURL: "https://mirror.local/button/"}
	got := p.ButtonURL("dQw4w9WgXcQ", "mp3", "")
	want := "https://mirror.local/button/?url=https://youtube.com/watch?v=dQw4w9WgXcQ&f=mp3"
	if got != want {
		t.Fatalf("ButtonURL() = %q, want %q", got, want)
	}
}

func TestListServices(t *testing.T) {
	got := ListServices(DefaultServices(), models.VideoID("dQw4w9WgXcQ"))
	want := []models.DownloadService{
		{Name: "OnlineConvert", URL: "https://www.onlineconverter.com/youtube-to-mp4?id=dQw4w9WgXcQ"},
		{Name: "Y2Mate", URL: "https://www.y2mate.com/youtube/dQw4w9WgXcQ"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("service[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

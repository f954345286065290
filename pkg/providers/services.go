package providers

import (
	"github.com/samber/lo"

	"github.com/imbecility/yt-resolver/pkg/models"
)

type OnlineConvert struct{}

func (OnlineConvert) Name() string { return "OnlineConvert" }

func (OnlineConvert) PageURL(id models.VideoID) string {
	return "https://www.onlineconverter.com/youtube-to-mp4?id=" + string(id)
}

type Y2Mate struct{}

func (Y2Mate) Name() string { return "Y2Mate" }

func (Y2Mate) PageURL(id models.VideoID) string {
	return "https://www.y2mate.com/youtube/" + string(id)
}

// DefaultServices lists the pages offered next to the format catalog, in display order.
func DefaultServices() []Service {
	return []Service{OnlineConvert{}, Y2Mate{}}
}

// ListServices renders services for the response envelope.
func ListServices(services []Service, id models.VideoID) []models.DownloadService {
	return lo.Map(services, func(s Service, _ int) models.DownloadService {
		return models.DownloadService{Name: s.Name(), URL: s.PageURL(id)}
	})
}

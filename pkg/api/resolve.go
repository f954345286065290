package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/imbecility/yt-resolver/pkg/utils"
)

const (
	msgEmptyURL   = "YouTube URL must not be empty"
	msgInvalidURL = "Invalid YouTube URL. Make sure the URL is correct."
)

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}

	env, err := s.Gateway.Resolve(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) && verr.Reason == utils.ReasonEmpty {
			respondError(w, http.StatusBadRequest, msgEmptyURL)
			return
		}
		slog.Info("Rejected resolve request", "err", err, "remote", r.RemoteAddr)
		respondError(w, http.StatusBadRequest, msgInvalidURL)
		return
	}

	slog.Info("Resolved", "vid", env.Meta.VideoID, "formats", len(env.Formats), "degraded", env.Degraded)

	if env.Degraded {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, s-maxage=3600")
	}
	respondJSON(w, http.StatusOK, env)
}

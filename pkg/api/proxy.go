package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/imbecility/yt-resolver/pkg/downloader"
)

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}

	raw := r.URL.Query().Get("url")
	if strings.TrimSpace(raw) == "" {
		s.Gateway.Metrics.ProxyFailure("validate")
		respondError(w, http.StatusBadRequest, "URL must not be empty")
		return
	}

	stream, err := s.Gateway.Downloader.Open(r.Context(), raw)
	if err != nil {
		if errors.Is(err, downloader.ErrInvalidURL) {
			s.Gateway.Metrics.ProxyFailure("validate")
			respondError(w, http.StatusBadRequest, "Invalid URL")
			return
		}
		slog.Error("Proxy upstream failed", "err", err, "remote", r.RemoteAddr)
		s.Gateway.Metrics.ProxyFailure("upstream")
		respondError(w, http.StatusInternalServerError, "Download failed")
		return
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			slog.Debug("Error closing upstream body", "err", cerr)
		}
	}()

	h := w.Header()
	h.Set("Content-Type", stream.ContentType)
	if stream.ContentType == "" {
		h.Set("Content-Type", "application/octet-stream")
	}
	if stream.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	h.Set("Content-Disposition", contentDisposition(stream.Filename))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	defer func() {
		s.Gateway.Metrics.ProxyBytes(stream.BytesRead())
		slog.Debug("Proxy relay finished", "bytes", stream.BytesRead(), "remote", r.RemoteAddr)
	}()

	rc := http.NewResponseController(w)
	for chunk, rerr := range stream.Chunks() {
		if rerr != nil {
			slog.Warn("Upstream read failed mid-stream", "err", rerr, "relayed", stream.BytesRead())
			s.Gateway.Metrics.ProxyFailure("stream")
			// a clean end would pass the short body off as complete
			panic(http.ErrAbortHandler)
		}
		if _, werr := w.Write(chunk); werr != nil {
			slog.Debug("Client went away during relay", "err", werr)
			break
		}
		if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
			slog.Debug("Flush failed during relay", "err", ferr)
			break
		}
	}
}

func contentDisposition(filename string) string {
	if filename == "" {
		return "attachment"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

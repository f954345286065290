package models

import "strconv"

// Wire renders the descriptor in the client-facing shape ("2.8 MB", "128 kbps").
func (f FormatDescriptor) Wire() Format {
	return Format{
		Type:       f.Type,
		Quality:    f.QualityLabel,
		Resolution: f.ResolutionTag,
		Size:       FormatNumber(f.EstimatedSizeMB) + " MB",
		SizeMB:     f.EstimatedSizeMB,
		URL:        f.ResolutionURL,
		Container:  f.Container,
		HasAudio:   f.HasAudio,
		Bitrate:    FormatNumber(f.Bitrate) + " " + string(f.BitrateUnit),
	}
}

// FormatNumber prints v with the shortest exact representation, so 18.0 is
// "18" and 0.5 is "0.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

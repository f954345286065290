package utils

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/imbecility/yt-resolver/pkg/models"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	ReasonEmpty        = "empty"
	ReasonUnrecognized = "unrecognized"
)

// ValidationError reports why an input could not be turned into a video ID.
type ValidationError struct {
	Reason string
	Input  string
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonEmpty {
		return "video URL is empty"
	}
	return fmt.Sprintf("unrecognized video URL: %q", e.Input)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Pattern is one entry of the extraction table. Lower Priority is tried first.
// Expr must have exactly one capture group holding the ID.
type Pattern struct {
	Name     string
	Priority int
	Expr     *regexp.Regexp
}

const idClass = `([A-Za-z0-9_-]{11})`

// host boundary keeps "notyoutube.com" from matching
const ytHost = `(?:^|[/.])(?:youtube\.com|youtube-nocookie\.com)`

var defaultPatterns = []Pattern{
	{Name: "watch", Priority: 10, Expr: regexp.MustCompile(ytHost + `/watch\?(?:[^#]*&)?v=` + idClass)},
	{Name: "short", Priority: 20, Expr: regexp.MustCompile(`(?:^|[/.])youtu\.be/` + idClass)},
	{Name: "embed", Priority: 30, Expr: regexp.MustCompile(ytHost + `/embed/` + idClass)},
	{Name: "v", Priority: 40, Expr: regexp.MustCompile(ytHost + `/v/` + idClass)},
	{Name: "shorts", Priority: 50, Expr: regexp.MustCompile(ytHost + `/shorts/` + idClass)},
	{Name: "live", Priority: 60, Expr: regexp.MustCompile(ytHost + `/live/` + idClass)},
	// bare IDs go last, otherwise they could shadow a URL's trailing segment
	{Name: "bare", Priority: 1000, Expr: regexp.MustCompile(`^` + idClass + `$`)},
}

// Patterns returns a copy of the default table in evaluation order.
func Patterns() []Pattern {
	return sortPatterns(defaultPatterns)
}

// Resolver extracts video IDs using an ordered pattern table.
type Resolver struct {
	patterns []Pattern
}

func NewResolver(patterns []Pattern) *Resolver {
	return &Resolver{patterns: sortPatterns(patterns)}
}

var defaultResolver = NewResolver(defaultPatterns)

// ExtractVideoID resolves input with the default pattern table.
func ExtractVideoID(input string) (models.VideoID, error) {
	return defaultResolver.Resolve(input)
}

// Resolve returns the ID captured by the first matching pattern.
func (r *Resolver) Resolve(input string) (models.VideoID, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", &ValidationError{Reason: ReasonEmpty}
	}

	for _, p := range r.patterns {
		m := p.Expr.FindStringSubmatch(input)
		if len(m) >= 2 && m[1] != "" {
			return models.VideoID(m[1]), nil
		}
	}

	return "", &ValidationError{Reason: ReasonUnrecognized, Input: input}
}

// Match reports which pattern accepted the input, for diagnostics.
func (r *Resolver) Match(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, p := range r.patterns {
		if p.Expr.MatchString(input) {
			return p.Name, true
		}
	}
	return "", false
}

var validIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidID checks the canonical ID shape.
func IsValidID(id models.VideoID) bool {
	return validIDRe.MatchString(string(id))
}

func sortPatterns(in []Pattern) []Pattern {
	out := make([]Pattern, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

package viewstate

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/paletteview/paletteview-server/internal/domain"
)

// Query parameter names of a shareable view link.
const (
	ParamPalette    = "palette"
	ParamCustomData = "customData"
	ParamStyle      = "style"
	ParamFullscreen = "fullscreen"
)

// Source says where the initial palette selection comes from.
type Source interface {
	isSource()
}

// NoURLState means the link names no palette.
type NoURLState struct{}

// IndexOnly carries the raw "palette" parameter.
type IndexOnly struct {
	Raw string
}

// FullPayload carries the raw "customData" share code.
type FullPayload struct {
	Encoded string
}

func (NoURLState) isSource()  {}
func (IndexOnly) isSource()   {}
func (FullPayload) isSource() {}

// Query is a parsed view link.
type Query struct {
	Source     Source
	Style      domain.Style
	Fullscreen bool
	// Rest holds every parameter the view does not own. It is carried
	// through to every recomputed link.
	Rest url.Values
}

// ParseQuery parses view link parameters. customData wins over palette
// when both are present; empty values count as absent. Unknown styles
// resolve to the default style.
func ParseQuery(v url.Values) Query {
	q := Query{
		Source:     NoURLState{},
		Style:      domain.ParseStyle(v.Get(ParamStyle)),
		Fullscreen: v.Get(ParamFullscreen) == "true",
		Rest:       url.Values{},
	}

	switch {
	case v.Get(ParamCustomData) != "":
		q.Source = FullPayload{Encoded: v.Get(ParamCustomData)}
	case v.Get(ParamPalette) != "":
		q.Source = IndexOnly{Raw: v.Get(ParamPalette)}
	}

	for k, vals := range v {
		switch k {
		case ParamPalette, ParamCustomData, ParamStyle, ParamFullscreen:
		default:
			q.Rest[k] = append([]string(nil), vals...)
		}
	}
	return q
}

// parseIndex reads a leading, optionally signed, run of digits after any
// whitespace: "2", " 2" and "2abc" give 2, "abc" gives ok false.
func parseIndex(raw string) (int, bool) {
	raw = strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	start := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

package tidal

import (
	"net/url"
	"strings"
)

// Kind is the type of catalog item a link points to.
type Kind int

const (
	KindUnknown Kind = iota
	KindTrack
	KindAlbum
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// ParseLink extracts the item kind and ID from a share link such as
// https://tidal.com/browse/album/79915001 or listen.tidal.com/playlist/<uuid>.
// A bare ID is returned with KindUnknown.
func ParseLink(input string) (Kind, string) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "/") {
		return KindUnknown, input
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return KindUnknown, ResourceID(input)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	for i := len(segments) - 2; i >= 0; i-- {
		var kind Kind
		switch segments[i] {
		case "track":
			kind = KindTrack
		case "album":
			kind = KindAlbum
		case "playlist":
			kind = KindPlaylist
		default:
			continue
		}
		return kind, segments[i+1]
	}
	return KindUnknown, ResourceID(input)
}

// ResourceID returns the last path segment of a link, dropping any query
// string. Input without a slash is returned trimmed.
func ResourceID(input string) string {
	input = strings.TrimSpace(input)
	if i := strings.IndexAny(input, "?#"); i >= 0 {
		input = input[:i]
	}
	input = strings.TrimRight(input, "/")
	if i := strings.LastIndex(input, "/"); i >= 0 {
		return input[i+1:]
	}
	return input
}

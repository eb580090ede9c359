package youtube

import (
	"net/url"
	"strings"
)

type LinkType string

const (
	LinkVideo    LinkType = "video"
	LinkShorts   LinkType = "shorts"
	LinkPlaylist LinkType = "playlist"
	LinkError    LinkType = "error"
)

// Link is the classification of a submitted URL. Callers must reject
// LinkError before attempting any fetch.
type Link struct {
	Id   string
	Type LinkType
}

// ParseURL classifies a YouTube link and extracts the video or playlist id.
// Unrecognized hosts or path shapes yield LinkError with an empty id.
func ParseURL(raw string) Link {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Link{Type: LinkError}
	}

	switch parsed.Hostname() {
	case "www.youtube.com", "youtube.com":
		switch {
		case parsed.Path == "/watch":
			return Link{Id: parsed.Query().Get("v"), Type: LinkVideo}
		case parsed.Path == "/playlist":
			return Link{Id: parsed.Query().Get("list"), Type: LinkPlaylist}
		case pathSegment(parsed.Path, 0) == "shorts":
			return Link{Id: pathSegment(parsed.Path, 1), Type: LinkShorts}
		}
	case "youtu.be":
		if pathSegment(parsed.Path, 0) == "shorts" {
			return Link{Id: pathSegment(parsed.Path, 1), Type: LinkShorts}
		}
		if id := pathSegment(parsed.Path, 0); id != "" {
			return Link{Id: id, Type: LinkVideo}
		}
	}
	return Link{Type: LinkError}
}

func pathSegment(path string, n int) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}

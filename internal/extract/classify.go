package extract

import (
	"fmt"
	"net/url"
	"strings"

	"recipebox/internal/recipe"
)

// Kind is the route a URL takes through the pipeline.
type Kind int

const (
	Article Kind = iota
	Video
)

func (k Kind) String() string {
	if k == Video {
		return "video"
	}
	return "article"
}

// Source is a classified URL.
type Source struct {
	Kind    Kind
	URL     *url.URL
	VideoID string
}

// videoPathPrefixes are youtube.com path forms that carry the id in the path.
var videoPathPrefixes = []string{"/shorts/", "/embed/", "/live/"}

// Classify decides whether rawURL points at a video or an article page.
func Classify(rawURL string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Source{}, fmt.Errorf("%w: %w", recipe.ErrInvalidSource, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Hostname() == "" {
		return Source{}, fmt.Errorf("%w: %q is not an http(s) URL", recipe.ErrInvalidSource, rawURL)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "youtu.be"):
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return Source{}, fmt.Errorf("%w: missing video id in %q", recipe.ErrInvalidSource, rawURL)
		}
		return Source{Kind: Video, URL: u, VideoID: id}, nil
	case strings.Contains(host, "youtube.com"):
		id := u.Query().Get("v")
		if id == "" {
			id = pathVideoID(u.Path)
		}
		if id == "" {
			return Source{}, fmt.Errorf("%w: missing video id in %q", recipe.ErrInvalidSource, rawURL)
		}
		return Source{Kind: Video, URL: u, VideoID: id}, nil
	}
	return Source{Kind: Article, URL: u}, nil
}

func pathVideoID(p string) string {
	for _, prefix := range videoPathPrefixes {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			id, _, _ := strings.Cut(rest, "/")
			return id
		}
	}
	return ""
}

package youtube

import (
	"strings"

	"vibe-dj/internal/ai"
)

// VideoID pulls the watch-page video identifier out of a URL: everything
// after "v=" up to the next "&". Total over all strings; an empty result
// marks the song unplayable rather than failing.
func VideoID(url string) string {
	_, after, found := strings.Cut(url, "v=")
	if !found {
		return ""
	}
	if i := strings.Index(after, "&"); i >= 0 {
		return after[:i]
	}
	return after
}

// EmbedPlaylistURL assembles the single embeddable reference for a song list:
// first extractable id as the primary target, the rest as the continuation
// list, autoplay and loop enabled. Derived view only, never stored.
func EmbedPlaylistURL(songs []ai.Song) string {
	ids := make([]string, 0, len(songs))
	for _, song := range songs {
		if id := VideoID(song.URL); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return "https://www.youtube.com/embed/" + ids[0] +
		"?playlist=" + strings.Join(ids[1:], ",") + "&autoplay=1&loop=1"
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

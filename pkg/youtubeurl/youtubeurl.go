// Package youtubeurl resolves YouTube video ids from the URL shapes users paste.
package youtubeurl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/johnquangdev/ytbuddy/pkg/validator"
)

// ErrNoVideoID is returned when no video id can be found in the input
var ErrNoVideoID = errors.New("no video id found")

// ExtractVideoID accepts a bare 11 character id or any of the watch, youtu.be,
// shorts, embed and v/ URL forms and returns the video id.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoVideoID
	}
	if validator.IsVideoID(raw) {
		return raw, nil
	}

	id, err := youtube.ExtractVideoID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoVideoID, err)
	}
	if !validator.IsVideoID(id) {
		return "", fmt.Errorf("%w: %q", ErrNoVideoID, id)
	}
	return id, nil
}

// WatchURL returns the canonical watch URL for a video id
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

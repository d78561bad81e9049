package engine

// Types shared with the sources sub-package.

// VideoMetadata describes a YouTube video. Duration is in seconds, 0 when
// the lookup could not determine it.
type VideoMetadata struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration,omitempty"`
}

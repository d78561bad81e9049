package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_videomind/internal/engine"
)

// YouTube video identification and metadata.
// Primary:  Data API v3 /videos (snippet + contentDetails) with key fallback
// Fallback: watch page ytInitialPlayerResponse videoDetails
// Fallback: watch page og:/itemprop meta tags

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ErrInvalidVideoURL marks input that is not a recognized YouTube video URL.
var ErrInvalidVideoURL = errors.New("not a recognized YouTube video URL")

// extractVideoID pulls the 11-char video ID from any YouTube URL format.
func extractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// ParseVideoURL validates a YouTube video URL and returns its video ID.
// Accepts http/https youtube.com/watch?v= and youtu.be/ forms.
func ParseVideoURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidVideoURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidVideoURL
	}
	id := extractVideoID(rawURL)
	if id == "" {
		return "", ErrInvalidVideoURL
	}
	return id, nil
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// --- YouTube Data API v3 types ---

type ytVideosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"` // ISO 8601, e.g. PT1H2M3S
		} `json:"contentDetails"`
	} `json:"items"`
}

// isoDurationRE parses the ISO 8601 duration subset the Data API emits.
var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts "PT1H2M3S" style durations to seconds, 0 on
// anything unparseable.
func parseISODuration(s string) int {
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	atoi := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	return atoi(m[1])*86400 + atoi(m[2])*3600 + atoi(m[3])*60 + atoi(m[4])
}

// FetchVideoMetadata looks up title, channel, description, and duration.
// Uses the Data API when a key is configured; otherwise (or on API failure)
// scrapes the watch page.
func FetchVideoMetadata(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	engine.IncrMetadataRequests()

	if engine.Cfg.YouTubeAPIKey != "" {
		md, err := fetchMetadataDataAPI(ctx, videoID)
		if err == nil {
			return md, nil
		}
		slog.Warn("youtube: data API metadata failed, scraping watch page",
			slog.String("id", videoID), slog.Any("err", err))
	}
	return fetchMetadataWatchPage(ctx, videoID)
}

// fetchMetadataDataAPI queries /videos, falling back to the secondary key on
// quota errors (403).
func fetchMetadataDataAPI(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}
	var lastErr error
	for _, key := range keys {
		md, err := doVideosLookup(ctx, videoID, key)
		if err == nil {
			return md, nil
		}
		lastErr = err
		slog.Debug("youtube data API key failed, trying fallback", slog.Any("err", err))
	}
	return engine.VideoMetadata{}, lastErr
}

func doVideosLookup(ctx context.Context, videoID, apiKey string) (engine.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", videoID)
	params.Set("key", apiKey)

	apiURL := ytDataAPIBase + "/videos?" + params.Encode()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return engine.VideoMetadata{}, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}

	var result ytVideosResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("decode youtube data API: %w", err)
	}
	if len(result.Items) == 0 {
		return engine.VideoMetadata{}, fmt.Errorf("video %s not found", videoID)
	}

	item := result.Items[0]
	return engine.VideoMetadata{
		ID:          videoID,
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		Description: engine.Truncate(item.Snippet.Description, 500),
		Duration:    parseISODuration(item.ContentDetails.Duration),
	}, nil
}

// fetchMetadataWatchPage extracts metadata from the watch page: player
// response videoDetails first, meta tags when that JSON is missing.
func fetchMetadataWatchPage(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	body, err := fetchWatchPage(ctx, videoID)
	if err != nil {
		return engine.VideoMetadata{}, err
	}

	if playerResp, err := parsePlayerResponse(body); err == nil &&
		playerResp.VideoDetails != nil && playerResp.VideoDetails.Title != "" {
		vd := playerResp.VideoDetails
		length, _ := strconv.Atoi(vd.LengthSeconds)
		return engine.VideoMetadata{
			ID:          videoID,
			Title:       vd.Title,
			Channel:     vd.Author,
			Description: engine.Truncate(vd.ShortDescription, 500),
			Duration:    length,
		}, nil
	}

	if md, ok := metaTagsFromWatchPage(body); ok {
		md.ID = videoID
		return md, nil
	}
	return engine.VideoMetadata{}, errors.New("no metadata in watch page")
}

// metaTagsFromWatchPage walks the HTML for og: and itemprop meta tags.
func metaTagsFromWatchPage(body []byte) (engine.VideoMetadata, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return engine.VideoMetadata{}, false
	}

	meta := make(map[string]string)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "property", "itemprop", "name":
					if key == "" {
						key = a.Val
					}
				case "content":
					content = a.Val
				}
			}
			if key != "" && content != "" {
				if _, dup := meta[key]; !dup {
					meta[key] = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	title := meta["og:title"]
	if title == "" {
		title = meta["title"]
	}
	if title == "" {
		return engine.VideoMetadata{}, false
	}
	return engine.VideoMetadata{
		Title:       title,
		Description: engine.Truncate(meta["og:description"], 500),
		Duration:    parseISODuration(meta["duration"]),
	}, true
}

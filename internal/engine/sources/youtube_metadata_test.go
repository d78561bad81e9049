package sources

import (
	"errors"
	"testing"
)

func TestParseVideoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantID  string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"http scheme", "http://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"extra params before v", "https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"extra params after v", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", false},
		{"missing scheme", "www.youtube.com/watch?v=dQw4w9WgXcQ", "", true},
		{"wrong scheme", "ftp://youtube.com/watch?v=dQw4w9WgXcQ", "", true},
		{"not youtube", "https://vimeo.com/12345678901", "", true},
		{"channel url", "https://www.youtube.com/@somechannel", "", true},
		{"short id", "https://youtu.be/short", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseVideoURL(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVideoURL) {
					t.Errorf("ParseVideoURL(%q) err = %v, want ErrInvalidVideoURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVideoURL(%q) unexpected error: %v", tt.url, err)
			}
			if id != tt.wantID {
				t.Errorf("ParseVideoURL(%q) = %q, want %q", tt.url, id, tt.wantID)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT3M32S", 212},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"P1DT1S", 86401},
		{"P0D", 0},
		{"PT", 0},
		{"", 0},
		{"garbage", 0},
		{"3M32S", 0},
	}

	for _, tt := range tests {
		if got := parseISODuration(tt.in); got != tt.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple object", `{"a":1} trailing`, `{"a":1}`},
		{"nested objects", `{"a":{"b":2}};var x=1`, `{"a":{"b":2}}`},
		{"braces in strings", `{"a":"}{"} rest`, `{"a":"}{"}`},
		{"escaped quote in string", `{"a":"\"}"} rest`, `{"a":"\"}"}`},
		{"unterminated", `{"a":1`, ""},
		{"not an object", `[1,2,3]`, ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMetaTagsFromWatchPage(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
<meta property="og:title" content="Test Video">
<meta property="og:description" content="A video about tests.">
<meta itemprop="duration" content="PT3M32S">
</head><body></body></html>`

	md, ok := metaTagsFromWatchPage([]byte(page))
	if !ok {
		t.Fatal("metaTagsFromWatchPage() ok = false, want true")
	}
	if md.Title != "Test Video" {
		t.Errorf("Title = %q, want %q", md.Title, "Test Video")
	}
	if md.Description != "A video about tests." {
		t.Errorf("Description = %q, want %q", md.Description, "A video about tests.")
	}
	if md.Duration != 212 {
		t.Errorf("Duration = %d, want 212", md.Duration)
	}
}

func TestMetaTagsFromWatchPageMissingTitle(t *testing.T) {
	page := `<html><head><meta property="og:description" content="no title"></head></html>`
	if _, ok := metaTagsFromWatchPage([]byte(page)); ok {
		t.Error("metaTagsFromWatchPage() ok = true, want false without a title")
	}
}

func TestStampHelpers(t *testing.T) {
	if got := stampFromMs("270000"); got != "[04:30] " {
		t.Errorf("stampFromMs(270000) = %q, want %q", got, "[04:30] ")
	}
	if got := stampFromMs("bad"); got != "" {
		t.Errorf("stampFromMs(bad) = %q, want empty", got)
	}
	if got := stampFromSeconds("12.28"); got != "[00:12] " {
		t.Errorf("stampFromSeconds(12.28) = %q, want %q", got, "[00:12] ")
	}
	if got := stampFromSeconds(""); got != "" {
		t.Errorf("stampFromSeconds(empty) = %q, want empty", got)
	}
}

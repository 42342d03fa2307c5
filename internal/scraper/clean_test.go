package scraper

import "testing"

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no query", "https://example.com/a", "https://example.com/a"},
		{"utm only", "https://example.com/a?utm_source=x&utm_medium=y", "https://example.com/a"},
		{"keeps order", "https://example.com/?b=2&utm_campaign=z&a=1", "https://example.com/?b=2&a=1"},
		{"click ids", "https://example.com/?fbclid=1&gclid=2&id=7", "https://example.com/?id=7"},
		{"case insensitive", "https://example.com/?UTM_Source=x&q=go", "https://example.com/?q=go"},
		{"keeps fragment", "https://example.com/p?utm_source=x#top", "https://example.com/p#top"},
		{"bare key", "https://example.com/?flag&utm_term=k", "https://example.com/?flag"},
		{"unparsable", "http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanURL(tt.in); got != tt.want {
				t.Errorf("CleanURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

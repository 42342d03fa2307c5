package scraper

import (
	"net/url"
	"path"
	"strings"

	"otter/server/internal/bookmark"
)

var hostTypes = []struct {
	host string
	typ  bookmark.Type
}{
	{"youtube.com", bookmark.TypeVideo},
	{"youtu.be", bookmark.TypeVideo},
	{"vimeo.com", bookmark.TypeVideo},
	{"twitch.tv", bookmark.TypeVideo},
	{"tiktok.com", bookmark.TypeVideo},
	{"dailymotion.com", bookmark.TypeVideo},
	{"soundcloud.com", bookmark.TypeAudio},
	{"open.spotify.com", bookmark.TypeAudio},
	{"podcasts.apple.com", bookmark.TypeAudio},
	{"music.apple.com", bookmark.TypeAudio},
	{"bandcamp.com", bookmark.TypeAudio},
	{"mixcloud.com", bookmark.TypeAudio},
	{"store.steampowered.com", bookmark.TypeGame},
	{"itch.io", bookmark.TypeGame},
	{"goodreads.com", bookmark.TypeBook},
	{"openlibrary.org", bookmark.TypeBook},
	{"eventbrite.com", bookmark.TypeEvent},
	{"meetup.com", bookmark.TypeEvent},
	{"lu.ma", bookmark.TypeEvent},
	{"amazon.com", bookmark.TypeProduct},
	{"etsy.com", bookmark.TypeProduct},
	{"ebay.com", bookmark.TypeProduct},
	{"openstreetmap.org", bookmark.TypePlace},
	{"flickr.com", bookmark.TypeImage},
	{"unsplash.com", bookmark.TypeImage},
	{"medium.com", bookmark.TypeArticle},
	{"substack.com", bookmark.TypeArticle},
	{"dev.to", bookmark.TypeArticle},
}

var extTypes = map[string]bookmark.Type{
	".jpg": bookmark.TypeImage, ".jpeg": bookmark.TypeImage, ".png": bookmark.TypeImage,
	".gif": bookmark.TypeImage, ".webp": bookmark.TypeImage, ".svg": bookmark.TypeImage,
	".avif": bookmark.TypeImage,
	".mp4": bookmark.TypeVideo, ".webm": bookmark.TypeVideo, ".mov": bookmark.TypeVideo,
	".mp3": bookmark.TypeAudio, ".wav": bookmark.TypeAudio, ".ogg": bookmark.TypeAudio,
	".flac": bookmark.TypeAudio, ".m4a": bookmark.TypeAudio,
	".pdf": bookmark.TypeDocument, ".doc": bookmark.TypeDocument, ".docx": bookmark.TypeDocument,
	".odt": bookmark.TypeDocument, ".epub": bookmark.TypeBook,
	".zip": bookmark.TypeFile, ".tar": bookmark.TypeFile, ".gz": bookmark.TypeFile,
	".dmg": bookmark.TypeFile, ".exe": bookmark.TypeFile, ".7z": bookmark.TypeFile,
}

// LinkType classifies a URL into a bookmark type. The URL itself (host, then
// path extension) decides first; scraped signals from meta, when non-nil,
// decide next; anything else is a plain link.
func LinkType(rawURL string, meta *Metadata) bookmark.Type {
	if u, err := url.Parse(rawURL); err == nil {
		if t, ok := byURL(u); ok {
			return t
		}
	}
	if meta != nil {
		if t, ok := byContentType(meta.ContentType); ok {
			return t
		}
		if t, ok := byOGType(meta.OGType); ok {
			return t
		}
	}
	return bookmark.TypeLink
}

func byURL(u *url.URL) (bookmark.Type, bool) {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	p := strings.ToLower(u.Path)

	if strings.HasPrefix(host, "maps.google.") || host == "maps.app.goo.gl" ||
		(strings.HasPrefix(host, "google.") && strings.HasPrefix(p, "/maps")) {
		return bookmark.TypePlace, true
	}
	for _, h := range hostTypes {
		if host == h.host || strings.HasSuffix(host, "."+h.host) {
			return h.typ, true
		}
	}
	if strings.Contains(host, "recipe") || strings.Contains(p, "/recipe") {
		return bookmark.TypeRecipe, true
	}
	if t, ok := extTypes[path.Ext(p)]; ok {
		return t, true
	}
	return "", false
}

func byContentType(ct string) (bookmark.Type, bool) {
	switch {
	case ct == "":
		return "", false
	case strings.HasPrefix(ct, "image/"):
		return bookmark.TypeImage, true
	case strings.HasPrefix(ct, "video/"):
		return bookmark.TypeVideo, true
	case strings.HasPrefix(ct, "audio/"):
		return bookmark.TypeAudio, true
	case ct == "application/pdf", ct == "application/msword",
		strings.HasPrefix(ct, "application/vnd.openxmlformats-officedocument"):
		return bookmark.TypeDocument, true
	case ct == "application/epub+zip":
		return bookmark.TypeBook, true
	case ct == "application/zip", ct == "application/octet-stream", ct == "application/gzip":
		return bookmark.TypeFile, true
	}
	return "", false
}

func byOGType(og string) (bookmark.Type, bool) {
	switch {
	case og == "":
		return "", false
	case strings.HasPrefix(og, "video"):
		return bookmark.TypeVideo, true
	case strings.HasPrefix(og, "music"):
		return bookmark.TypeAudio, true
	case og == "article":
		return bookmark.TypeArticle, true
	case og == "book", og == "books.book":
		return bookmark.TypeBook, true
	case og == "product", og == "og:product", og == "product.item":
		return bookmark.TypeProduct, true
	case og == "place", og == "business.business", og == "restaurant.restaurant":
		return bookmark.TypePlace, true
	case og == "game", og == "games.game":
		return bookmark.TypeGame, true
	}
	return "", false
}

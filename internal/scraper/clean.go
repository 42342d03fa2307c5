package scraper

import (
	"net/url"
	"strings"
)

// trackingParams are query keys that only identify a campaign or click and
// never change what the URL points at.
var trackingParams = map[string]bool{
	"fbclid":      true,
	"gclid":       true,
	"gclsrc":      true,
	"dclid":       true,
	"msclkid":     true,
	"yclid":       true,
	"twclid":      true,
	"igshid":      true,
	"mc_cid":      true,
	"mc_eid":      true,
	"_hsenc":      true,
	"_hsmi":       true,
	"mkt_tok":     true,
	"oly_anon_id": true,
	"oly_enc_id":  true,
	"vero_id":     true,
	"wickedid":    true,
	"ref_src":     true,
	"ref_url":     true,
}

func isTracking(key string) bool {
	k := strings.ToLower(key)
	return strings.HasPrefix(k, "utm_") || trackingParams[k]
}

// CleanURL strips tracking parameters from rawURL, keeping every other
// parameter in its original order. Unparsable input is returned unchanged.
func CleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}

	parts := strings.Split(u.RawQuery, "&")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		key := p
		if i := strings.IndexByte(p, '='); i >= 0 {
			key = p[:i]
		}
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if isTracking(key) {
			continue
		}
		kept = append(kept, p)
	}

	u.RawQuery = strings.Join(kept, "&")
	u.ForceQuery = false
	return u.String()
}

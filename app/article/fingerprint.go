package article

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
)

// Fingerprint computes the stable identity string for an article.
//
// A source-native ID wins when present, prefixed with the source name
// because native IDs are only unique within their own source. Otherwise
// the URL is normalized (query string and fragment stripped) and hashed,
// so tracking parameters appended to a link do not produce a spurious
// duplicate and the same article re-fetched later resolves to the same
// identity.
func Fingerprint(source, sourceID, rawURL string) string {
	if sourceID != "" {
		return source + ":" + sourceID
	}

	sum := md5.Sum([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(sum[:])
}

// NormalizeURL strips the query string and fragment from a URL. A string
// that does not parse as a URL is returned unchanged.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}

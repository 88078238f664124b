package speech

import (
	"fmt"
	"net/url"
	"strings"
)

const speakPathPrefix = "voice/v1/speak/"

const upperHex = "0123456789ABCDEF"

// isPathSafe reports whether c may appear unescaped in a single path segment: the RFC 3986
// pchar set minus '/'.
func isPathSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', // unreserved
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', // sub-delims
		':', '@':
		return true
	}
	return false
}

// escapePathSegment percent-encodes s so that it stays one path segment; a '/' in s is always
// escaped as %2F. Non-ASCII text is encoded byte by byte as UTF-8.
func escapePathSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isPathSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

func encodeQuery(params []QueryParam) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// BuildURL returns the request URL for options against endpoint. Query parameters keep the
// order textType, language, outputFormat, gender, access_token, sku; sku is appended only
// when skuToken is non-empty. Equal inputs always give byte-identical URLs.
//
// BuildURL panics if endpoint has no scheme or host, or if the result does not parse:
// both mean the caller was misconfigured, not that the request failed.
func BuildURL(endpoint *url.URL, options *SpeechOptions, accessToken, skuToken string) *url.URL {
	if endpoint == nil || endpoint.Scheme == "" || endpoint.Host == "" {
		panic(fmt.Sprintf("speech: invalid API endpoint %v", endpoint))
	}

	params := append(options.Params(), QueryParam{Name: "access_token", Value: accessToken})
	if skuToken != "" {
		params = append(params, QueryParam{Name: "sku", Value: skuToken})
	}

	raw := endpoint.Scheme + "://" + endpoint.Host + "/" + options.Path() + "?" + encodeQuery(params)
	u, err := url.Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("speech: cannot build request URL: %v", err))
	}
	return u
}

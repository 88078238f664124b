package speech

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

const fallbackLocale = "en-US"

// identifierOverrides lists locale tags the voice provider does not accept as-is.
// Lookups are exact and case-sensitive so unrelated regional tags are never remapped.
var identifierOverrides = map[string]string{
	"zh":         "cmn-CN",
	"zh-CN":      "cmn-CN",
	"zh_CN":      "cmn-CN",
	"zh-Hans":    "cmn-CN",
	"zh-Hans-CN": "cmn-CN",
	"zh_Hans_CN": "cmn-CN",
	"ar":         "arb",
	"ar-AE":      "arb",
	"ar_AE":      "arb",
	"ar-SA":      "arb",
	"ar_SA":      "arb",
	"ar-EG":      "arb",
	"ar_EG":      "arb",
}

// MapIdentifier translates a locale tag into the identifier the voice provider expects.
// Tags without an override are returned unchanged.
func MapIdentifier(tag string) string {
	if id, ok := identifierOverrides[tag]; ok {
		return id
	}
	return tag
}

// DefaultLocale derives a BCP 47 tag from the process environment, the way a POSIX
// system reports its current locale (LC_ALL, then LC_MESSAGES, then LANG).
func DefaultLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := localeFromPOSIX(os.Getenv(key)); ok {
			return tag
		}
	}
	return fallbackLocale
}

// localeFromPOSIX turns "en_US.UTF-8@euro" into "en-US".
func localeFromPOSIX(value string) (string, bool) {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil || tag == language.Und {
		return "", false
	}
	return tag.String(), true
}

package speech

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Kind is the closed set of ways a synthesis request can fail.
type Kind int

const (
	// KindUnknown covers transport failures (cancellation included), undecodable error
	// bodies, and API errors other than rate limiting.
	KindUnknown Kind = iota
	// KindNoData means the request finished without an error but returned no body.
	KindNoData
	// KindInvalidResponse means no response metadata was available.
	KindInvalidResponse
	// KindRateLimited means the access token exceeded its request quota (HTTP 429).
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no_data"
	case KindInvalidResponse:
		return "invalid_response"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; every *Error matches the one for its Kind.
var (
	ErrUnknown         = errors.New("speech: request failed")
	ErrNoData          = errors.New("speech: no data returned")
	ErrInvalidResponse = errors.New("speech: invalid response")
	ErrRateLimited     = errors.New("speech: rate limited")
)

// Construction errors.
var (
	ErrMissingAccessToken = errors.New("speech: an access token is required")
	ErrInvalidEndpoint    = errors.New("speech: invalid API endpoint")
)

// ResponseInfo is the part of an HTTP response kept for diagnostics.
type ResponseInfo struct {
	StatusCode  int
	Header      http.Header
	ContentType string
}

// Error is the single error type delivered for a failed synthesis request.
type Error struct {
	Kind Kind

	// Response is nil when the request never produced response metadata.
	Response *ResponseInfo
	// Underlying is the transport or decoding error, if any.
	Underlying error
	// Code and Message come from the API's JSON error body.
	Code    string
	Message string

	// Rate limit details, each nil when the header was missing or malformed.
	Interval  *time.Duration
	Limit     *uint64
	ResetTime *time.Time
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("speech: ")
	b.WriteString(e.Kind.String())
	if e.Response != nil {
		fmt.Fprintf(&b, " (status %d)", e.Response.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	b.WriteString(": ")
	b.WriteString(e.FailureReason())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnknown:
		return e.Kind == KindUnknown
	case ErrNoData:
		return e.Kind == KindNoData
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	}
	return false
}

// FailureReason is a sentence suitable for showing to a user.
func (e *Error) FailureReason() string {
	switch e.Kind {
	case KindNoData:
		return "The server returned no data."
	case KindInvalidResponse:
		return "The server returned an invalid response."
	case KindRateLimited:
		if e.Interval != nil && e.Limit != nil {
			return fmt.Sprintf("More than %s requests have been made with this access token within a period of %s.",
				formatCount(*e.Limit), formatInterval(*e.Interval))
		}
		return "Too many requests have been made with this access token."
	}

	if e.Message != "" {
		return e.Message
	}
	if e.Underlying != nil {
		return e.Underlying.Error()
	}
	status := 0
	if e.Response != nil {
		status = e.Response.StatusCode
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("Unexpected server response (status %d).", status)
}

// RecoverySuggestion is empty unless the error carries something the user can act on.
func (e *Error) RecoverySuggestion() string {
	if e.Kind == KindRateLimited && e.ResetTime != nil {
		return fmt.Sprintf("Wait until %s before retrying.", formatResetTime(*e.ResetTime))
	}
	return ""
}

// IsCancelled reports whether the request failed because it was cancelled.
func (e *Error) IsCancelled() bool {
	return isCancellation(e.Underlying)
}

var intervalUnits = []struct {
	size time.Duration
	name string
}{
	{size: humanize.Day, name: "day"},
	{size: time.Hour, name: "hour"},
	{size: time.Minute, name: "minute"},
}

// formatInterval spells out a rate limit window with every non-zero component,
// e.g. "1 minute" or "1 minute, 30 seconds".
func formatInterval(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%g seconds", d.Seconds())
	}
	var parts []string
	for _, unit := range intervalUnits {
		if n := d / unit.size; n > 0 {
			parts = append(parts, pluralize(int64(n), unit.name))
			d -= n * unit.size
		}
	}
	if d > 0 {
		if seconds := d.Seconds(); seconds == 1 {
			parts = append(parts, "1 second")
		} else {
			parts = append(parts, fmt.Sprintf("%g seconds", seconds))
		}
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int64, name string) string {
	if n == 1 {
		return "1 " + name
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(n), name)
}

// formatCount adds thousands separators across the whole uint64 range.
func formatCount(n uint64) string {
	if n <= math.MaxInt64 {
		return humanize.Comma(int64(n))
	}
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

func formatResetTime(t time.Time) string {
	return t.Local().Format("January 2, 2006 at 3:04:05 PM MST")
}

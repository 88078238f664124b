package speech

import (
	"encoding/json"
	"math"
	"mime"
	"net/http"
	"strconv"
	"time"
)

const (
	errorMimeType = "application/json"
	apiCodeOk     = "Ok"

	headerRateLimitInterval = "X-Rate-Limit-Interval"
	headerRateLimitLimit    = "X-Rate-Limit-Limit"
	headerRateLimitReset    = "X-Rate-Limit-Reset"
)

// Classify decides the outcome of one request from what the transport produced. Exactly one of
// the return values is non-nil. On success the body is returned untouched. A body that is not
// JSON is never inspected: apart from a 429 it is delivered whatever the status.
//
// transportErr is the error from sending the request or reading its body; response is nil when
// no response metadata was received.
func Classify(response *ResponseInfo, body []byte, transportErr error) ([]byte, error) {
	if transportErr != nil {
		return nil, &Error{Kind: KindUnknown, Response: response, Underlying: transportErr}
	}
	if len(body) == 0 && (response == nil || response.StatusCode != http.StatusTooManyRequests) {
		return nil, &Error{Kind: KindNoData, Response: response}
	}
	if response == nil {
		return nil, &Error{Kind: KindInvalidResponse}
	}

	if !isErrorMimeType(response.ContentType) {
		if response.StatusCode == http.StatusTooManyRequests {
			return nil, rateLimitError(response, "", "")
		}
		return body, nil
	}

	var envelope map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &envelope); err != nil {
			if response.StatusCode == http.StatusTooManyRequests {
				return nil, rateLimitError(response, "", "")
			}
			return nil, &Error{Kind: KindUnknown, Response: response, Underlying: err}
		}
	}
	code, hasCode := envelope["code"].(string)
	message, hasMessage := envelope["message"].(string)

	if response.StatusCode == http.StatusTooManyRequests {
		return nil, rateLimitError(response, code, message)
	}
	if (!hasCode && !hasMessage) || code == apiCodeOk {
		return body, nil
	}
	return nil, &Error{Kind: KindUnknown, Response: response, Code: code, Message: message}
}

func isErrorMimeType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == errorMimeType
}

func rateLimitError(response *ResponseInfo, code, message string) *Error {
	e := &Error{Kind: KindRateLimited, Response: response, Code: code, Message: message}
	if response.Header == nil {
		return e
	}
	if v := response.Header.Get(headerRateLimitInterval); v != "" {
		if seconds, err := strconv.ParseFloat(v, 64); err == nil && seconds >= 0 && !math.IsInf(seconds, 0) {
			interval := time.Duration(seconds * float64(time.Second))
			e.Interval = &interval
		}
	}
	if v := response.Header.Get(headerRateLimitLimit); v != "" {
		if limit, err := strconv.ParseUint(v, 10, 64); err == nil {
			e.Limit = &limit
		}
	}
	if v := response.Header.Get(headerRateLimitReset); v != "" {
		if ts, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(ts) && !math.IsInf(ts, 0) {
			sec, frac := math.Modf(ts)
			reset := time.Unix(int64(sec), int64(frac*float64(time.Second)))
			e.ResetTime = &reset
		}
	}
	return e
}

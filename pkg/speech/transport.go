package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// Doer sends a single HTTP request. *http.Client satisfies it; timeouts belong to the Doer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// fetch performs the GET and reads the whole body. A failure to read the body is reported as a
// transport error alongside whatever response metadata was received.
func fetch(ctx context.Context, client Doer, u *url.URL, userAgent string) (*ResponseInfo, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	info := &ResponseInfo{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, nil, err
	}
	return info, body, nil
}

func isCancellation(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

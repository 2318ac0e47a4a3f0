package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"RegimeAudit/pkg/breaker"
	xhttp "RegimeAudit/pkg/http"
)

// httpServiceBase centralizes client construction and JSON POST handling for
// remote text-generation endpoints.
type httpServiceBase struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
	breaker *breaker.Breaker
}

func newHTTPServiceBase(baseURL, apiKey string, timeout time.Duration, br *breaker.Breaker) *httpServiceBase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		breaker: br,
	}
}

// PostJSON posts the payload to path under baseURL and decodes JSON into dest.
func (b *httpServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("narrative http client not initialized")
	}
	headers := map[string]string{"Content-Type": "application/json"}
	if b.apiKey != "" {
		headers["Authorization"] = "Bearer " + b.apiKey
	}
	send := func() error {
		return b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:  xhttp.MethodPost,
			URL:     b.baseURL + path,
			Headers: headers,
			Body:    payload,
		}, dest)
	}

	var err error
	if b.breaker != nil {
		err = b.breaker.Do(send)
	} else {
		err = send()
	}
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

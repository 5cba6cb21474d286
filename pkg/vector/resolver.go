package vector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ResolveHost looks up the data plane host of an index on the control plane
// and returns it as a base URL with a trailing slash.
func ResolveHost(ctx context.Context, doer Doer, apiKey, index, controlPlaneURL string) (string, error) {
	fail := func(status int, err error) (string, error) {
		return "", &EndpointResolutionError{Index: index, StatusCode: status, Err: err}
	}

	endpoint := strings.TrimRight(controlPlaneURL, "/") + "/indexes/" + url.PathEscape(index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Api-Key", apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, errors.Wrap(err, "read body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.Errorf("unexpected status, body: %s", body))
	}

	var desc indexDescription
	if err := json.Unmarshal(body, &desc); err != nil {
		return fail(resp.StatusCode, errors.Wrap(err, "decode index description"))
	}

	if strings.TrimSpace(desc.Host) == "" {
		return fail(resp.StatusCode, errors.New("index description has no host"))
	}

	return "https://" + desc.Host + "/", nil
}

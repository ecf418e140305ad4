package tools

import (
	"context"
	"net/http"
	"time"

	"github.com/tekutils/tek/errors"
)

// RedirectTimeout bounds ResolveRedirect.
const RedirectTimeout = 30 * time.Second

// ResolveRedirect follows the redirects of url and returns the final URL.
func ResolveRedirect(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RedirectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid url %s", url)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "request to %s failed", url)
	}
	defer resp.Body.Close()
	return resp.Request.URL.String(), nil
}

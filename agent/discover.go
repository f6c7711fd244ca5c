package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mattt/moodring/tools"
)

// Discover fetches the published descriptor set from a provider's schema
// endpoint. The endpoint may be the schema URL itself or the provider base
// URL.
func Discover(ctx context.Context, client *http.Client, endpoint string) ([]tools.Descriptor, error) {
	if client == nil {
		client = http.DefaultClient
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	if !strings.HasSuffix(u.Path, "/schema") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/schema"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating schema request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching schema from %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching schema from %s: unexpected status %d", u, resp.StatusCode)
	}

	var descriptors []tools.Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptors); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return descriptors, nil
}

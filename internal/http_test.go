package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTransport(t *testing.T) {
	var received http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Clone()
	}))
	defer ts.Close()

	client := &http.Client{
		Transport: &HeaderTransport{
			Headers: http.Header{
				"Authorization": []string{"Bearer token"},
				"X-Custom":      []string{"a", "b"},
			},
		},
	}

	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer token", received.Get("Authorization"))
	assert.Equal(t, []string{"a", "b"}, received.Values("X-Custom"))
}

func TestAuthTransport(t *testing.T) {
	transport := AuthTransport(nil, "Bearer token")
	assert.Equal(t, "Bearer token", transport.Headers.Get("Authorization"))
	assert.Nil(t, transport.Base)
}

package internal

import "net/http"

// HeaderTransport is a RoundTripper that adds default headers to every
// outgoing request, typically an Authorization header for a remote
// provider
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

// AuthTransport returns a HeaderTransport carrying an Authorization header
func AuthTransport(base http.RoundTripper, credential string) *HeaderTransport {
	return &HeaderTransport{
		Base:    base,
		Headers: http.Header{"Authorization": []string{credential}},
	}
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for key, values := range t.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

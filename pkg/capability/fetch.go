package capability

import (
	"net/http"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Fetcher performs an outbound HTTP request. The request's context governs cancellation.
type Fetcher interface {
	Fetch(req *http.Request) (*http.Response, error)
}

type nativeFetcher struct {
	host ports.HostFetcher
}

func (f *nativeFetcher) Fetch(req *http.Request) (*http.Response, error) {
	if f.host == nil {
		return nil, domain.NewUnsupportedError(CapFetch)
	}
	return f.host.Do(req)
}

type fallbackFetcher struct {
	client *http.Client
}

func (f *fallbackFetcher) Fetch(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

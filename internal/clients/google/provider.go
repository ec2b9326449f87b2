package google

import (
	"fmt"
	"net/http"

	"github.com/dpup/routesim/server/internal/config"
	"github.com/dpup/routesim/server/internal/lib/routing"
)

// NewProvider builds the routing provider selected in the configuration
func NewProvider(cfg *config.Config) (routing.Provider, error) {
	switch cfg.Provider {
	case config.ProviderDirections:
		client, err := NewDirectionsClient(cfg.Google.APIKey, cfg.Google.BaseURL, cfg.Google.Timeout)
		if err != nil {
			return nil, err
		}
		return client.WithTravelMode(cfg.TravelMode), nil
	case config.ProviderRoutes, "":
		httpClient := &http.Client{Timeout: cfg.Google.Timeout}
		return NewClientWithHTTPDoer(cfg.Google.APIKey, cfg.Google.BaseURL, httpClient).WithTravelMode(cfg.TravelMode), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

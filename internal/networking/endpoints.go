package networking

import (
	"fmt"

	"github.com/jwtly10/go-nextstep/internal/config"
)

// AuthorizationRequest is the body of the onset call. Fake is 1 for dummy
// traffic that the backend must discard.
type AuthorizationRequest struct {
	AuthorizationCode string `json:"authorizationCode"`
	Fake              int    `json:"fake"`
}

// Backends holds the services of one environment
type Backends struct {
	Codegen Backend
	Config  Backend
	Publish Backend
}

func NewBackends(cfg *config.AppConfig) (*Backends, error) {
	codegen, err := NewBackend(cfg.CodegenBaseURL(), "v2")
	if err != nil {
		return nil, fmt.Errorf("failed to create codegen backend: %w", err)
	}
	configService, err := NewBackend(cfg.ConfigBaseURL(), "v1")
	if err != nil {
		return nil, fmt.Errorf("failed to create config backend: %w", err)
	}
	publish, err := NewBackend(cfg.PublishBaseURL(), "v2")
	if err != nil {
		return nil, fmt.Errorf("failed to create publish backend: %w", err)
	}

	return &Backends{
		Codegen: codegen,
		Config:  configService,
		Publish: publish,
	}, nil
}

// ConfigEndpoint loads the remote app config for the given versions
func (b *Backends) ConfigEndpoint(appVersion, osVersion, buildNumber string) Endpoint {
	return b.Config.Endpoint("config", WithQuery(map[string]string{
		"appversion": appVersion,
		"osversion":  osVersion,
		"buildnr":    buildNumber,
	}))
}

// OnsetEndpoint exchanges an authorization code for an upload token
func (b *Backends) OnsetEndpoint(auth AuthorizationRequest) Endpoint {
	return b.Codegen.Endpoint("onset",
		WithMethod(MethodPost),
		WithHeaders(map[string]string{
			"accept":       "*/*",
			"Content-Type": "application/json",
		}),
		WithJSONBody(auth),
	)
}

func (b *Backends) StatisticsEndpoint() Endpoint {
	return b.Config.Endpoint("statistics")
}

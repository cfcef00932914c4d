// Package rest implements the stateless token-authenticated channel to the
// agent API. Each CLI invocation builds at most one gateway; requests are
// independent and never retried.
package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/warehouse"
)

const requestTimeout = 30 * time.Second

var _ warehouse.AgentAPI = (*Gateway)(nil)

type Gateway struct {
	host    string
	baseURL string
	token   string
	role    string
	client  *http.Client
}

// New builds a gateway from resolved settings. The host comes from the
// explicit host setting or is derived from the account identifier; the PAT
// token is mandatory since this channel is never used unauthenticated.
func New(settings config.Settings) (*Gateway, error) {
	host := strings.TrimSpace(settings.Host)
	if host == "" {
		account := strings.TrimSpace(settings.Account)
		if account == "" {
			return nil, configError(fmt.Sprintf(
				"host or account must be set (--host/%s or --account/%s)",
				config.HostEnvVar, config.AccountEnvVar), nil)
		}
		host = account + config.HostDomainSuffix
	}

	token := strings.TrimSpace(settings.PATToken)
	if token == "" {
		return nil, configError(fmt.Sprintf(
			"PAT token must be set (--pat-token or %s)", config.PATTokenEnvVar), nil)
	}

	normalized := NormalizeHost(host)
	return &Gateway{
		host:    normalized,
		baseURL: "https://" + normalized,
		token:   token,
		role:    strings.TrimSpace(settings.Role),
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// NormalizeHost lowercases a host and replaces underscores with hyphens.
// Account identifiers may contain underscores, hostnames may not.
func NormalizeHost(host string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(host)), "_", "-")
}

func (g *Gateway) Host() string {
	return g.host
}

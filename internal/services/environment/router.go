// Package environment selects the admin API environment from the host the console serves.
package environment

import (
	"strings"

	"github.com/unifiedui/admin-console/internal/domain/models"
)

// Config holds the host groups and API settings of both environments.
type Config struct {
	ProdHosts      []string
	StageHosts     []string
	ProdAPIBase    string
	StageAPIBase   string
	ProdProductID  string
	StageProductID string
}

// Router maps hostnames to environment profiles.
type Router struct {
	prodHosts  map[string]struct{}
	stageHosts map[string]struct{}
	prod       models.EnvironmentProfile
	stage      models.EnvironmentProfile
}

// NewRouter creates a router. Host entries are compared case-insensitively.
func NewRouter(cfg Config) *Router {
	return &Router{
		prodHosts:  hostSet(cfg.ProdHosts),
		stageHosts: hostSet(cfg.StageHosts),
		prod: models.EnvironmentProfile{
			Name:      models.EnvironmentProd,
			APIBase:   strings.TrimRight(cfg.ProdAPIBase, "/"),
			ProductID: cfg.ProdProductID,
		},
		stage: models.EnvironmentProfile{
			Name:      models.EnvironmentStage,
			APIBase:   strings.TrimRight(cfg.StageAPIBase, "/"),
			ProductID: cfg.StageProductID,
		},
	}
}

// Resolve returns the profile for hostname. One leading "www." is ignored and
// hosts in neither group fall back to stage.
func (r *Router) Resolve(hostname string) models.EnvironmentProfile {
	host := normalizeHost(hostname)

	if _, ok := r.prodHosts[host]; ok {
		return r.prod
	}
	if _, ok := r.stageHosts[host]; ok {
		return r.stage
	}
	return r.stage
}

func hostSet(hosts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		if h = normalizeHost(h); h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

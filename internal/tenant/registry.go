// internal/tenant/registry.go
package tenant

import (
	"context"
	"errors"

	"suggestion-engine/internal/common/config"
)

// ErrUnknownAPIKey is returned for credentials that are absent or disabled.
// The resolver treats it as "no identity", never as a request failure.
var ErrUnknownAPIKey = errors.New("unknown or disabled api key")

// Registry maps opaque credentials to tenant identifiers.
type Registry interface {
	LookupAPIKey(ctx context.Context, apiKey string) (string, error)
}

type staticEntry struct {
	tenantID string
	enabled  bool
}

// StaticRegistry serves lookups from configuration. It is the default when
// no Postgres registry is configured.
type StaticRegistry struct {
	byKey map[string]staticEntry
}

func NewStaticRegistry(entries []config.TenantEntry) *StaticRegistry {
	byKey := make(map[string]staticEntry, len(entries))
	for _, e := range entries {
		if e.APIKey == "" {
			continue
		}
		byKey[e.APIKey] = staticEntry{tenantID: e.TenantID, enabled: e.Enabled}
	}
	return &StaticRegistry{byKey: byKey}
}

func (r *StaticRegistry) LookupAPIKey(_ context.Context, apiKey string) (string, error) {
	entry, ok := r.byKey[apiKey]
	if !ok || !entry.enabled {
		return "", ErrUnknownAPIKey
	}
	return entry.tenantID, nil
}

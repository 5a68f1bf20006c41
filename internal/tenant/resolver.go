// internal/tenant/resolver.go
package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/models"
)

// Credential surfaces in precedence order.
const (
	SourceBody   = "body"
	SourceQuery  = "query"
	SourceHeader = "header"
	SourceCookie = "cookie"
)

// CheckedSources is reported in the 401 body so callers know what was inspected.
var CheckedSources = []string{SourceBody, SourceQuery, SourceHeader, SourceCookie}

const (
	headerTenantID = "X-Tenant-ID"
	headerAPIKey   = "X-API-Key"
	cookieTenantID = "tenant_id"
	cookieAPIKey   = "api_key"
	fieldTenantID  = "tenantId"
	fieldAPIKey    = "apiKey"
)

// Resolver derives a tenant identity from an inbound request's credential
// surfaces. A direct tenant identifier at any precedence level wins outright
// over any credential-derived identity.
type Resolver struct {
	registry Registry
	log      logger.Logger
}

func NewResolver(registry Registry, log logger.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		log:      log.With(map[string]interface{}{"component": "tenant-resolver"}),
	}
}

type signal struct {
	value  string
	source string
}

// Resolve returns the tenant identity or nil when none can be derived.
// A nil result means the caller must answer 401; it is not an error here.
// The request body, when read, is restored so downstream handlers can
// consume it again.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) *models.TenantIdentity {
	ids, keys := r.extract(req)

	if len(ids) > 0 {
		win := ids[0]
		r.log.Debug("tenant resolved from direct identifier", map[string]interface{}{
			"tenantId": win.value,
			"source":   win.source,
		})
		return &models.TenantIdentity{TenantID: win.value}
	}

	if len(keys) == 0 {
		return nil
	}

	// Only the first usable credential is consulted; a failed lookup yields
	// no identity rather than falling through to lower-precedence keys.
	win := keys[0]
	tenantID, err := r.registry.LookupAPIKey(ctx, win.value)
	if err != nil {
		r.log.Warn("api key lookup failed", map[string]interface{}{
			"source": win.source,
		})
		return nil
	}

	r.log.Debug("tenant resolved from api key", map[string]interface{}{
		"tenantId": tenantID,
		"source":   win.source,
	})
	return &models.TenantIdentity{TenantID: tenantID}
}

// extract collects both signals from every surface, ordered body > query >
// header > cookie.
func (r *Resolver) extract(req *http.Request) (ids, keys []signal) {
	if bodyID, bodyKey, ok := r.readBody(req); ok {
		if bodyID != "" {
			ids = append(ids, signal{bodyID, SourceBody})
		}
		if bodyKey != "" {
			keys = append(keys, signal{bodyKey, SourceBody})
		}
	}

	q := req.URL.Query()
	if v := strings.TrimSpace(q.Get(fieldTenantID)); v != "" {
		ids = append(ids, signal{v, SourceQuery})
	}
	if v := strings.TrimSpace(q.Get(fieldAPIKey)); v != "" {
		keys = append(keys, signal{v, SourceQuery})
	}

	if v := strings.TrimSpace(req.Header.Get(headerTenantID)); v != "" {
		ids = append(ids, signal{v, SourceHeader})
	}
	if v := strings.TrimSpace(req.Header.Get(headerAPIKey)); v != "" {
		keys = append(keys, signal{v, SourceHeader})
	}

	if c, err := req.Cookie(cookieTenantID); err == nil && strings.TrimSpace(c.Value) != "" {
		ids = append(ids, signal{strings.TrimSpace(c.Value), SourceCookie})
	}
	if c, err := req.Cookie(cookieAPIKey); err == nil && strings.TrimSpace(c.Value) != "" {
		keys = append(keys, signal{strings.TrimSpace(c.Value), SourceCookie})
	}

	return ids, keys
}

func (r *Resolver) readBody(req *http.Request) (tenantID, apiKey string, ok bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", "", false
	}
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		return "", "", false
	}

	raw, err := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "", "", false
	}

	var body struct {
		TenantID string `json:"tenantId"`
		APIKey   string `json:"apiKey"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", "", false
	}

	return strings.TrimSpace(body.TenantID), strings.TrimSpace(body.APIKey), true
}

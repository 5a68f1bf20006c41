// internal/models/tenant.go
package models

// TenantIdentity is resolved once per request and never re-resolved mid-flight.
type TenantIdentity struct {
	TenantID string `json:"tenantId"`
}

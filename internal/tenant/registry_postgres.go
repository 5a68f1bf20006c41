// internal/tenant/registry_postgres.go
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"suggestion-engine/internal/common/database"
)

const lookupAPIKeyQuery = `SELECT tenant_id FROM tenant_api_keys WHERE api_key = $1 AND enabled = TRUE`

// PostgresRegistry resolves API keys against the tenant_api_keys table.
type PostgresRegistry struct {
	db *database.PostgresClient
}

func NewPostgresRegistry(db *database.PostgresClient) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) LookupAPIKey(ctx context.Context, apiKey string) (string, error) {
	var tenantID string
	err := r.db.QueryRow(ctx, lookupAPIKeyQuery, apiKey).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnknownAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("tenant registry lookup: %w", err)
	}
	return tenantID, nil
}

// Package shared holds cross-cutting request primitives: tenant identity,
// pagination, and validation plumbing.
package shared

import (
	"context"

	"github.com/hisaab-cloud/hisaab/internal/platform/httpx"
)

// TenantContext identifies the company on whose behalf an operation runs.
// It is resolved once at the HTTP boundary and passed explicitly into every
// service call; core code never reaches into ambient state for it.
type TenantContext struct {
	CompanyID int64
	UserID    int64
}

type tenantContextKey struct{}

// ContextWithTenant stores the resolved tenant in the request context so
// handlers can extract it and pass it on explicitly.
func ContextWithTenant(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

// TenantFromContext extracts the tenant resolved by the auth middleware.
// A missing tenant means the request never passed key resolution.
func TenantFromContext(ctx context.Context) (TenantContext, error) {
	tc, ok := ctx.Value(tenantContextKey{}).(TenantContext)
	if !ok || tc.CompanyID == 0 {
		return TenantContext{}, httpx.Unauthorized("NO_COMPANY", "no company resolved for request")
	}
	return tc, nil
}

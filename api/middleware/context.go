package middleware

import "context"

type contextKey string

const (
	ctxUserID         contextKey = "user_id"
	ctxOrganizationID contextKey = "organization_id"
	ctxBusinessUnitID contextKey = "business_unit_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func OrganizationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxOrganizationID)
}

func BusinessUnitIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxBusinessUnitID)
}

// WithOrganization injects the organization scope into the context.
func WithOrganization(ctx context.Context, organizationID, businessUnitID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxOrganizationID, organizationID)
	if businessUnitID != "" {
		ctx = context.WithValue(ctx, ctxBusinessUnitID, businessUnitID)
	}
	return ctx
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

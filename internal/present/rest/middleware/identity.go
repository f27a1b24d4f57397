package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/studiokawa/proofroom/internal/domain"
)

var tracer = otel.Tracer("middleware")

// IdentityMiddleware lifts the requester identity the upstream auth proxy
// attached as headers into the request context. Handlers read it back with
// the domain ctx keys.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Middleware.IdentifyIdentity")
		defer span.End()

		if requesterID := c.Request().Header.Get(domain.RequesterIdHeader); requesterID != "" {
			ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, requesterID)
			span.SetAttributes(attribute.String("RequesterId", requesterID))
		}

		if email := c.Request().Header.Get(domain.RequesterEmailHeader); email != "" {
			ctx = context.WithValue(ctx, domain.RequesterEmailCtxKey, email)
		}

		if orgID := c.Request().Header.Get(domain.OrganizationHeader); orgID != "" {
			ctx = context.WithValue(ctx, domain.OrganizationCtxKey, orgID)
			span.SetAttributes(attribute.String("OrganizationId", orgID))
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

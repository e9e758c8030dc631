package handler

import (
	"context"
	"time"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/internal/domain/report"
	"warehouse-service/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers.
// Each interface contains only the methods needed by the specific handler.

// AuthHandler interfaces
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type CredentialIssuer interface {
	IssueClaims(identity auth.Identity, ttl time.Duration) (string, *auth.Claims, error)
}

// ReportHandler interfaces
type ReportRepository interface {
	GetByID(ctx context.Context, id string) (*report.Report, error)
}

type ViewLinkService interface {
	Issue(resourceID string, ttl time.Duration) (auth.ViewLink, error)
	Verify(resourceID, exp, sig string) error
}

// Shared
type AuditRecorder interface {
	Record(c echo.Context, resourceType audit.ResourceType, resourceID string, action audit.Action, status audit.Status, metadata map[string]any)
}

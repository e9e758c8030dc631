package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"warehouse-service/internal/auth"
	"warehouse-service/internal/http/middleware"
	"warehouse-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const writeTimeout = 2 * time.Second

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeViewLink  ActorType = "view_link"
	ActorTypeAnonymous ActorType = "anonymous"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeReport ResourceType = "report"
	ResourceTypeUser   ResourceType = "user"
)

// Action represents the action being performed
type Action string

const (
	ActionLogin    Action = "login"
	ActionDownload Action = "download"
	ActionShare    Action = "share"
	ActionView     Action = "view"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      string
	ResourceType ResourceType
	ResourceID   string
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	CreatedAt    time.Time
}

type eventStore interface {
	insert(ctx context.Context, event *Event) error
}

// Logger records audit events without blocking the request that caused
// them. Call Wait before exiting to flush pending writes.
type Logger struct {
	store   eventStore
	pending sync.WaitGroup
	onError func(error)
}

// NewLogger creates an audit logger writing to the audit_events table.
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{store: &pgStore{pool: pool}}
}

// Log records an audit event synchronously.
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}
	if event.Metadata != nil {
		event.Metadata = logger.SanitizeMap(event.Metadata)
	}

	return l.store.insert(ctx, event)
}

// Record builds an event from the request and writes it in the background.
func (l *Logger) Record(c echo.Context, resourceType ResourceType, resourceID string, action Action, status Status, metadata map[string]any) {
	event := FromContext(c)
	event.ResourceType = resourceType
	event.ResourceID = resourceID
	event.Action = action
	event.Status = status
	event.Metadata = metadata

	errorf := l.onError
	if errorf == nil {
		log := c.Logger()
		errorf = func(err error) { log.Errorf("audit log failed: %v", err) }
	}

	l.pending.Add(1)
	go func() {
		defer l.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := l.Log(ctx, event); err != nil {
			errorf(err)
		}
	}()
}

// Wait blocks until every background write has finished.
func (l *Logger) Wait() {
	l.pending.Wait()
}

// FromContext fills the request-derived fields of an event.
func FromContext(c echo.Context) *Event {
	event := &Event{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: middleware.GetRequestID(c),
		ActorType: ActorTypeAnonymous,
	}

	switch auth.GetAuthType(c) {
	case auth.AuthTypeCredential:
		if identity, err := auth.GetIdentity(c); err == nil {
			event.ActorType = ActorTypeUser
			event.ActorID = identity.SubjectID
		}
	case auth.AuthTypeViewLink:
		event.ActorType = ActorTypeViewLink
	}

	return event
}

type pgStore struct {
	pool *pgxpool.Pool
}

func (s *pgStore) insert(ctx context.Context, event *Event) error {
	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorType,
		nullIfEmpty(event.ActorID),
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.CreatedAt,
	)

	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

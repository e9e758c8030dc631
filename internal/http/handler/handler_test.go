package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/internal/domain/report"
	"warehouse-service/internal/domain/user"
	apperrors "warehouse-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-tests-secret-0123456789abcdef"

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func frozen(t time.Time) auth.Clock {
	return func() time.Time { return t }
}

func newTestSigner(t *testing.T) *auth.Signer {
	t.Helper()
	signer, err := auth.NewSigner([]byte(testSecret))
	require.NoError(t, err)
	return signer
}

type fakeUserRepo struct {
	users map[string]*user.User
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

type fakeReportRepo struct {
	reports map[string]*report.Report
	err     error
}

func (f *fakeReportRepo) GetByID(_ context.Context, id string) (*report.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.reports[id]; ok {
		return r, nil
	}
	return nil, apperrors.NotFound("report not found")
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames(paramID)
	c.SetParamValues(id)
	return c
}

type auditEntry struct {
	resourceType audit.ResourceType
	resourceID   string
	action       audit.Action
	status       audit.Status
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Record(_ echo.Context, resourceType audit.ResourceType, resourceID string, action audit.Action, status audit.Status, _ map[string]any) {
	f.entries = append(f.entries, auditEntry{resourceType, resourceID, action, status})
}

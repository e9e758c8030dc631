package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"warehouse-service/internal/audit"
	"warehouse-service/internal/auth"
	"warehouse-service/internal/document"
	"warehouse-service/internal/domain/report"
	apperrors "warehouse-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	reports       ReportRepository
	viewLinks     ViewLinkService
	viewLinkTTL   time.Duration
	publicBaseURL string
	auditLogger   AuditRecorder
}

func NewReportHandler(
	reports ReportRepository,
	viewLinks ViewLinkService,
	viewLinkTTL time.Duration,
	publicBaseURL string,
	auditLogger AuditRecorder,
) *ReportHandler {
	return &ReportHandler{
		reports:       reports,
		viewLinks:     viewLinks,
		viewLinkTTL:   viewLinkTTL,
		publicBaseURL: publicBaseURL,
		auditLogger:   auditLogger,
	}
}

type ViewLinkResponse struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// Document renders a report for an authenticated caller as a download.
func (h *ReportHandler) Document(c echo.Context) error {
	id := c.Param(paramID)
	rep, err := h.loadVisible(c.Request().Context(), id)
	if err != nil {
		return respondLoadError(c, id, err)
	}

	h.record(c, rep.ID, audit.ActionDownload, nil)

	return respondBlob(c, document.ContentType, dispositionAttachment, reportFilename(rep.ID), document.Render(rep.Lines()))
}

// CreateViewLink mints a short-lived public URL for a report.
func (h *ReportHandler) CreateViewLink(c echo.Context) error {
	id := c.Param(paramID)
	rep, err := h.loadVisible(c.Request().Context(), id)
	if err != nil {
		return respondLoadError(c, id, err)
	}

	link, err := h.viewLinks.Issue(rep.ID, h.viewLinkTTL)
	if err != nil {
		c.Logger().Errorf("view link for report %s: %v", rep.ID, err)
		return respondError(c, http.StatusInternalServerError, msgCreateViewLinkFail)
	}

	h.record(c, rep.ID, audit.ActionShare, map[string]any{"expires_at": link.ExpiresAt})

	return c.JSON(http.StatusCreated, ViewLinkResponse{
		URL:       link.URL(h.publicBaseURL + viewReportPathPrefix + url.PathEscape(rep.ID)),
		ExpiresAt: link.ExpiresAt,
	})
}

// View serves a report to anyone holding a valid view link. The link is
// checked before the report is looked up. Only a correctly signed link can
// answer 410; any other bad link answers exactly like a missing report.
func (h *ReportHandler) View(c echo.Context) error {
	id := c.Param(paramID)

	if err := h.viewLinks.Verify(id, c.QueryParam(queryParamExpiry), c.QueryParam(queryParamSig)); err != nil {
		if errors.Is(err, apperrors.ErrExpired) {
			return respondError(c, http.StatusGone, msgViewLinkExpired)
		}
		return SafeErrorResponse(c, err, http.StatusNotFound, msgReportNotFound)
	}
	c.Set(auth.ContextKeyAuthType, auth.AuthTypeViewLink)

	rep, err := h.loadVisible(c.Request().Context(), id)
	if err != nil {
		return respondLoadError(c, id, err)
	}

	h.record(c, rep.ID, audit.ActionView, nil)

	return respondBlob(c, document.ContentType, dispositionInline, reportFilename(rep.ID), document.Render(rep.Lines()))
}

// loadVisible fetches a report that may be shown. Missing and hidden
// reports both come back as ErrNotFound.
func (h *ReportHandler) loadVisible(ctx context.Context, id string) (*report.Report, error) {
	if id == "" {
		return nil, apperrors.NotFound(msgReportNotFound)
	}

	rep, err := h.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rep.Visible() {
		return nil, apperrors.NotFound(msgReportNotFound)
	}

	return rep, nil
}

func respondLoadError(c echo.Context, id string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return respondNotFound(c)
	}
	c.Logger().Errorf("load report %s: %v", id, err)
	return respondError(c, http.StatusInternalServerError, msgLoadReportFail)
}

func (h *ReportHandler) record(c echo.Context, reportID string, action audit.Action, metadata map[string]any) {
	if h.auditLogger != nil {
		h.auditLogger.Record(c, audit.ResourceTypeReport, reportID, action, audit.StatusSuccess, metadata)
	}
}

func respondNotFound(c echo.Context) error {
	return respondError(c, http.StatusNotFound, msgReportNotFound)
}

func reportFilename(id string) string {
	return reportFilenamePrefix + id + reportFilenameSuffix
}

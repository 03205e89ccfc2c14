package v1

import (
	"errors"
	"io"
	"net/http"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC    domain.AdminUsecase
	documentUC domain.DocumentUsecase
	reportUC   domain.ReportUsecase
}

// NewAdminHandler registers admin routes on a group already guarded by
// RequireAdmin. mutate is applied to state-changing and export routes.
func NewAdminHandler(admin *gin.RouterGroup, adminUC domain.AdminUsecase, documentUC domain.DocumentUsecase, reportUC domain.ReportUsecase, mutate gin.HandlerFunc) {
	handler := &AdminHandler{adminUC: adminUC, documentUC: documentUC, reportUC: reportUC}

	apps := admin.Group("/applications")
	{
		apps.GET("", handler.ListApplications)
		apps.GET("/:id", handler.GetApplication)
		apps.POST("/:id/review", mutate, handler.StartReview)
		apps.POST("/:id/request-documents", mutate, handler.RequestDocuments)
		apps.POST("/:id/approve", mutate, handler.Approve)
		apps.POST("/:id/reject", mutate, handler.Reject)
		apps.POST("/:id/complete", mutate, handler.Complete)
		apps.DELETE("/:id", mutate, handler.DeleteApplication)
	}

	docs := admin.Group("/documents")
	{
		docs.POST("/:id/verify", mutate, handler.VerifyDocument)
		docs.POST("/:id/reject", mutate, handler.RejectDocument)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("/statistics", handler.Statistics)
		reports.GET("/export", mutate, handler.Export)
	}
}

// ListApplications godoc
// @Summary      List applications
// @Description  Search by name, email or post; filter by status; sort newest, oldest or name
// @Tags         admin
// @Produce      json
// @Param        search     query     string  false  "Free text"
// @Param        status     query     string  false  "Status (approved is accepted)"
// @Param        sort       query     string  false  "newest, oldest or name"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page (max 100)"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.Application]}
// @Failure      403        {object}  response.Response
// @Router       /admin/applications [get]
// @Security     BearerAuth
func (h *AdminHandler) ListApplications(c *gin.Context) {
	var q domain.ApplicationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}
	result, err := h.adminUC.ListApplications(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", result)
}

// GetApplication godoc
// @Summary      Application with documents and audit log
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.ApplicationDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /admin/applications/{id} [get]
// @Security     BearerAuth
func (h *AdminHandler) GetApplication(c *gin.Context) {
	detail, err := h.adminUC.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", detail)
}

// bindReview reads the optional reason body; an absent or empty body,
// chunked or not, means no reason
func bindReview(c *gin.Context) (string, bool) {
	var req domain.ReviewRequest
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", true
		}
		c.Error(apperror.BadRequest("reason must be a string of at most 1000 characters"))
		return "", false
	}
	return req.Reason, true
}

func (h *AdminHandler) respondTransition(c *gin.Context, app *domain.Application, err error, message string) {
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, app)
}

// StartReview godoc
// @Summary      Start reviewing an application
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      409  {object}  response.Response
// @Router       /admin/applications/{id}/review [post]
// @Security     BearerAuth
func (h *AdminHandler) StartReview(c *gin.Context) {
	app, err := h.adminUC.StartReview(c.Request.Context(), c.Param("id"))
	h.respondTransition(c, app, err, "Review started")
}

// RequestDocuments godoc
// @Summary      Ask the candidate for more documents
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Application ID"
// @Param        body  body      domain.ReviewRequest  true  "What is missing"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/applications/{id}/request-documents [post]
// @Security     BearerAuth
func (h *AdminHandler) RequestDocuments(c *gin.Context) {
	reason, ok := bindReview(c)
	if !ok {
		return
	}
	app, err := h.adminUC.RequestDocuments(c.Request.Context(), c.Param("id"), reason)
	h.respondTransition(c, app, err, "Documents requested")
}

// Approve godoc
// @Summary      Accept an application
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true   "Application ID"
// @Param        body  body      domain.ReviewRequest  false  "Optional note"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      409   {object}  response.Response
// @Router       /admin/applications/{id}/approve [post]
// @Security     BearerAuth
func (h *AdminHandler) Approve(c *gin.Context) {
	note, ok := bindReview(c)
	if !ok {
		return
	}
	app, err := h.adminUC.Approve(c.Request.Context(), c.Param("id"), note)
	h.respondTransition(c, app, err, "Application accepted")
}

// Reject godoc
// @Summary      Reject an application
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Application ID"
// @Param        body  body      domain.ReviewRequest  true  "Reason shown to the candidate"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/applications/{id}/reject [post]
// @Security     BearerAuth
func (h *AdminHandler) Reject(c *gin.Context) {
	reason, ok := bindReview(c)
	if !ok {
		return
	}
	app, err := h.adminUC.Reject(c.Request.Context(), c.Param("id"), reason)
	h.respondTransition(c, app, err, "Application rejected")
}

// Complete godoc
// @Summary      Mark onboarding complete
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Failure      409  {object}  response.Response
// @Router       /admin/applications/{id}/complete [post]
// @Security     BearerAuth
func (h *AdminHandler) Complete(c *gin.Context) {
	app, err := h.adminUC.Complete(c.Request.Context(), c.Param("id"))
	h.respondTransition(c, app, err, "Onboarding completed")
}

// DeleteApplication godoc
// @Summary      Delete an application with its documents
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/applications/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteApplication(c *gin.Context) {
	if err := h.adminUC.DeleteApplication(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application deleted", nil)
}

// VerifyDocument godoc
// @Summary      Verify a document
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=domain.Document}
// @Router       /admin/documents/{id}/verify [post]
// @Security     BearerAuth
func (h *AdminHandler) VerifyDocument(c *gin.Context) {
	doc, err := h.documentUC.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document verified", doc)
}

// RejectDocument godoc
// @Summary      Reject a document
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Document ID"
// @Param        body  body      domain.ReviewRequest  true  "Reason"
// @Success      200   {object}  response.Response{data=domain.Document}
// @Failure      400   {object}  response.Response
// @Router       /admin/documents/{id}/reject [post]
// @Security     BearerAuth
func (h *AdminHandler) RejectDocument(c *gin.Context) {
	reason, ok := bindReview(c)
	if !ok {
		return
	}
	doc, err := h.documentUC.Reject(c.Request.Context(), c.Param("id"), reason)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document rejected", doc)
}

// Statistics godoc
// @Summary      Reporting summary
// @Tags         reports
// @Produce      json
// @Param        bucket  query     string  false  "day (default) or month"
// @Success      200     {object}  response.Response{data=domain.Statistics}
// @Router       /admin/reports/statistics [get]
// @Security     BearerAuth
func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.reportUC.GetStatistics(c.Request.Context(), c.DefaultQuery("bucket", domain.BucketDay))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Statistics", stats)
}

// Export godoc
// @Summary      Export applications
// @Description  Same filters as the list endpoint, without pagination
// @Tags         reports
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Param        search  query  string  false  "Free text"
// @Param        status  query  string  false  "Status"
// @Param        sort    query  string  false  "newest, oldest or name"
// @Success      200
// @Router       /admin/reports/export [get]
// @Security     BearerAuth
func (h *AdminHandler) Export(c *gin.Context) {
	var q domain.ApplicationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}
	file, err := h.reportUC.Export(c.Request.Context(), q, c.DefaultQuery("format", domain.ExportCSV))
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, file.FileName, file.ContentType, file.Data)
}

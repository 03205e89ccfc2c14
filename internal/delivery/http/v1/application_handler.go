package v1

import (
	"net/http"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
	documentUC    domain.DocumentUsecase
}

// NewApplicationHandler registers the candidate application routes.
// uploadLimit guards the document upload endpoint.
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase, documentUC domain.DocumentUsecase, uploadLimit gin.HandlerFunc) {
	handler := &ApplicationHandler{applicationUC: applicationUC, documentUC: documentUC}

	apps := r.Group("/applications")
	{
		apps.GET("", handler.GetMyApplications)
		apps.POST("", handler.CreateDraft)
		apps.GET("/:id", handler.GetApplicationDetail)
		apps.PUT("/:id", handler.UpdateDraft)
		apps.POST("/:id/submit", handler.Submit)
		apps.GET("/:id/timeline", handler.GetTimeline)
		apps.GET("/:id/documents", handler.ListDocuments)
		apps.POST("/:id/documents", uploadLimit, handler.UploadDocument)
	}

	docs := r.Group("/documents")
	{
		docs.GET("/:id/url", handler.DocumentURL)
		docs.DELETE("/:id", handler.DeleteDocument)
	}
}

// GetMyApplications godoc
// @Summary      My applications
// @Description  Applications owned by the authenticated candidate, newest first
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Application}
// @Failure      401  {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	apps, err := h.applicationUC.GetMyApplications(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", apps)
}

// CreateDraft godoc
// @Summary      Start an application
// @Description  Creates a draft; every field is optional until submission
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ApplicationInput  true  "Draft fields"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) CreateDraft(c *gin.Context) {
	var input domain.ApplicationInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.Error(apperror.BadRequest("Invalid request body"))
			return
		}
	}
	app, err := h.applicationUC.CreateDraft(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Draft created", app)
}

// GetApplicationDetail godoc
// @Summary      Application detail
// @Description  Application with its documents; owner or admin only
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.ApplicationDetailResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetApplicationDetail(c *gin.Context) {
	detail, err := h.applicationUC.GetApplicationDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", detail)
}

// UpdateDraft godoc
// @Summary      Save draft fields
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Application ID"
// @Param        body  body      domain.ApplicationInput  true  "Changed fields"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateDraft(c *gin.Context) {
	var input domain.ApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	app, err := h.applicationUC.UpdateDraft(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft saved", app)
}

// Submit godoc
// @Summary      Submit an application
// @Description  Optionally send the complete form; fields and status change are saved together
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true   "Application ID"
// @Param        body  body      domain.ApplicationInput  false  "Complete form"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/submit [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var input *domain.ApplicationInput
	if c.Request.ContentLength != 0 {
		input = &domain.ApplicationInput{}
		if err := c.ShouldBindJSON(input); err != nil {
			c.Error(apperror.BadRequest("Invalid request body"))
			return
		}
	}
	app, err := h.applicationUC.Submit(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application submitted", app)
}

// GetTimeline godoc
// @Summary      Application timeline
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.ActivityLog}
// @Router       /applications/{id}/timeline [get]
// @Security     BearerAuth
func (h *ApplicationHandler) GetTimeline(c *gin.Context) {
	logs, err := h.applicationUC.GetTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Timeline retrieved", logs)
}

// ListDocuments godoc
// @Summary      Documents of an application
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=[]domain.Document}
// @Router       /applications/{id}/documents [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documentUC.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Documents retrieved", docs)
}

// UploadDocument godoc
// @Summary      Upload a document
// @Description  PDF, JPG or PNG up to 5 MB. Replaces a pending or rejected document of the same type.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true  "Application ID"
// @Param        document_type  formData  string  true  "pan_card, aadhar_card, marksheet_10th, ..."
// @Param        file           formData  file    true  "Document"
// @Success      201            {object}  response.Response{data=domain.Document}
// @Failure      400            {object}  response.Response
// @Failure      409            {object}  response.Response
// @Failure      413            {object}  response.Response
// @Failure      429            {object}  response.Response
// @Router       /applications/{id}/documents [post]
// @Security     BearerAuth
func (h *ApplicationHandler) UploadDocument(c *gin.Context) {
	filename, data, err := readUpload(c, "file", storage.DocumentRules.MaxSize)
	if err != nil {
		c.Error(err)
		return
	}
	doc, err := h.documentUC.Upload(c.Request.Context(), domain.UploadDocumentRequest{
		ApplicationID: c.Param("id"),
		DocumentType:  domain.DocumentType(c.PostForm("document_type")),
		FileName:      filename,
		Data:          data,
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Document uploaded", doc)
}

// DocumentURL godoc
// @Summary      Signed download URL
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=domain.SignedURLResponse}
// @Failure      403  {object}  response.Response
// @Router       /documents/{id}/url [get]
// @Security     BearerAuth
func (h *ApplicationHandler) DocumentURL(c *gin.Context) {
	signed, err := h.documentUC.SignedURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Signed URL created", signed)
}

// DeleteDocument godoc
// @Summary      Delete an unverified document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /documents/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) DeleteDocument(c *gin.Context) {
	if err := h.documentUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document deleted", nil)
}

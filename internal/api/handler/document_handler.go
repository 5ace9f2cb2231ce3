package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obralink/obra-monitor/internal/core/domain"
	"github.com/obralink/obra-monitor/internal/core/ports"
)

type registerDocumentRequest struct {
	FileName    string `json:"file_name"    validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes"   validate:"required,gt=0"`
	StorageKey  string `json:"storage_key"  validate:"required"`
}

type documentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type listDocumentsResponse struct {
	Data []documentResponse `json:"data"`
}

// DocumentHandler registers and lists document metadata. The blob itself is
// stored out of band, referenced by storage key.
type DocumentHandler struct {
	documents ports.DocumentRepository
	projects  ports.ProjectRepository
}

func NewDocumentHandler(documents ports.DocumentRepository, projects ports.ProjectRepository) *DocumentHandler {
	return &DocumentHandler{documents: documents, projects: projects}
}

// Register handles POST /v1/projects/:id/documents.
//
// @Summary      Register an uploaded document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                   true  "Project id"
// @Param        body  body      registerDocumentRequest  true  "Document metadata"
// @Success      201   {object}  documentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/documents [post]
func (h *DocumentHandler) Register(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req registerDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.projects.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	doc := &domain.DocumentRecord{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  req.StorageKey,
		UploadedBy:  identity.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.documents.Insert(c.Request().Context(), doc); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// List handles GET /v1/projects/:id/documents.
//
// @Summary      List a project's documents
// @Tags         documents
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  listDocumentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	project, err := h.projects.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	docs, err := h.documents.ListByProject(c.Request().Context(), project.ID)
	if err != nil {
		return err
	}

	resp := listDocumentsResponse{Data: make([]documentResponse, 0, len(docs))}
	for i := range docs {
		resp.Data = append(resp.Data, toDocumentResponse(&docs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /v1/documents/:id.
//
// @Summary      Delete a document record
// @Tags         documents
// @Security     CookieAuth
// @Param        id   path  string  true  "Document id"
// @Success      204  "deleted"
// @Failure      404  {object}  errorResponse
// @Router       /v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	if err := h.documents.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toDocumentResponse(d *domain.DocumentRecord) documentResponse {
	return documentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		StorageKey:  d.StorageKey,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
)

// DocumentHandler serves the strata documents register.
type DocumentHandler struct {
	Sessions  *session.Manager
	Documents *repository.DocumentRepo
}

func NewDocumentHandler(sessions *session.Manager, documents *repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{Sessions: sessions, Documents: documents}
}

// List returns the register, newest first.
func (h *DocumentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	docs, err := h.Documents.List(ctx)
	if err != nil {
		log.Printf("document: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load documents"})
	}
	if docs == nil {
		docs = []repository.DocumentDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": docs})
}

type createDocumentReq struct {
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
	Type     string `json:"document_type"`
}

// Create records a document's metadata.  Unknown types fall back to
// "other"; the file itself is stored outside this service.
func (h *DocumentHandler) Create(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req createDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.FilePath = strings.TrimSpace(req.FilePath)
	if req.Title == "" || req.FilePath == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and file_path are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uploadedBy := user.ID
	id, err := h.Documents.Insert(ctx, &model.Document{
		Title:      req.Title,
		FilePath:   req.FilePath,
		Type:       model.ParseDocumentType(req.Type),
		UploadedBy: &uploadedBy,
	})
	if err != nil {
		log.Printf("document: insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save document"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

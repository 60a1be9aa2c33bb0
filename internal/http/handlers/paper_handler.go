// Paper HTTP handlers.
//
// This file exposes REST endpoints for research-paper resources:
//   - GET  /papers   (list, paginated)
//   - POST /papers   (multipart upload)
package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/http/middleware"
	"github.com/dida1024/AideX/internal/utils"
)

// PaperService defines paper operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PaperService interface {
	// ListPage returns a page of papers visible to the actor and the total count.
	ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Paper, int64, error)
	// Upload validates, stores, and records an uploaded paper file.
	Upload(ctx context.Context, actor *domain.User, fileName, contentType string, content io.Reader, isProcess bool) (*domain.Paper, error)
}

// ListPapers godoc
// @ID          listPapers
// @Summary     List papers (paginated)
// @Description Returns a page of papers: all papers for superusers, own papers otherwise.
// @Tags        Papers
// @Produce     json
// @Security    BearerAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.Envelope{data=handlers.PaginatedData}
// @Router      /papers [get]
func (h *Handlers) ListPapers(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, pageSize := clampPagination(c)
	items, total, err := h.papers.ListPage(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		failBiz(c, err)
		return
	}
	paginated(c, items, total, page, pageSize)
}

// UploadPaper godoc
// @ID          uploadPaper
// @Summary     Upload a paper
// @Description Accepts markdown, plain text, PDF, or Word files and returns the stored paper with its download URL.
// @Tags        Papers
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
//
// @Param       file        formData  file    true   "Paper file"
// @Param       file_name   formData  string  false  "Display name (defaults to the uploaded filename)"
// @Param       is_process  formData  bool    false  "Queue for content processing"  default(true)
//
// @Success     201  {object}  handlers.Envelope{data=domain.Paper}
// @Failure     400  {object}  handlers.Envelope  "Missing file"
// @Router      /papers [post]
func (h *Handlers) UploadPaper(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}

	fileName := c.PostForm("file_name")
	if fileName == "" {
		fileName = fh.Filename
	}
	isProcess := utils.BoolDefault(c.PostForm("is_process"), true)

	f, err := fh.Open()
	if err != nil {
		failBiz(c, err)
		return
	}
	defer f.Close()

	p, err := h.papers.Upload(c.Request.Context(), actor, fileName, fh.Header.Get("Content-Type"), f, isProcess)
	if err != nil {
		failBiz(c, err)
		return
	}
	created(c, p)
}

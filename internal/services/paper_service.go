// Package services – PaperService
//
// Research-paper uploads. The binary content goes through storage.FileStore;
// only metadata and the public download URL are persisted.
package services

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/domain"
	"github.com/dida1024/AideX/internal/repo"
	"github.com/dida1024/AideX/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PaperService coordinates paper metadata persistence and file storage.
type PaperService struct {
	DB      *gorm.DB
	Store   storage.FileStore
	BaseURL string
}

// ListPage returns a page of papers and the total count. Superusers see every
// paper; everyone else only their own.
func (s *PaperService) ListPage(ctx context.Context, actor *domain.User, page, pageSize int) ([]domain.Paper, int64, error) {
	tr := otel.Tracer("services/PaperService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	scope := actor.ID
	if actor.IsSuperuser {
		scope = ""
	}

	total, err := repo.CountPapers(ctx, s.DB, scope)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Paper{}, 0, nil
	}
	items, err := repo.ListPapersPage(ctx, s.DB, scope, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Upload validates the content type, stores the file, and records the paper.
//
// Errors: FileTypeError for a content type outside the allowlist.
func (s *PaperService) Upload(ctx context.Context, actor *domain.User, fileName, contentType string, content io.Reader, isProcess bool) (*domain.Paper, error) {
	tr := otel.Tracer("services/PaperService")
	ctx, span := tr.Start(ctx, "Upload",
		trace.WithAttributes(
			attribute.String("user.id", actor.ID),
			attribute.String("file.name", fileName),
			attribute.String("file.content_type", contentType),
		),
	)
	defer span.End()

	if !storage.TypeAllowed(contentType) {
		return nil, bizerr.New(bizerr.FileTypeError)
	}

	stored, err := s.Store.SaveUpload(fileName, content)
	if err != nil {
		return nil, err
	}
	url := s.Store.DownloadURL(s.BaseURL, stored)
	return repo.CreatePaper(ctx, s.DB, actor.ID, fileName, url, isProcess)
}

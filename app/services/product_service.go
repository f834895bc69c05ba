package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/orm"
	"github.com/shashiranjanraj/bizadmin/pkg/storage"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type ProductService struct {
	*EntityService[models.Product]
	disk func() storage.Disk
}

// NewProductService stores images on disk, or on storage.Default() when
// disk is nil.
func NewProductService(repo *orm.Repository[models.Product], store cache.Store, bus *event.Bus, disk storage.Disk) *ProductService {
	s := &ProductService{EntityService: NewEntityService(repo, "product", store, bus)}
	if disk != nil {
		s.disk = func() storage.Disk { return disk }
	} else {
		s.disk = storage.Default
	}
	return s
}

// AttachImage uploads an image for product id and points its image column
// at the stored file. It returns (nil, nil) when id does not exist.
func (s *ProductService) AttachImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Product, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, errs.BadRequest(fmt.Sprintf("unsupported image type %q", ext), nil)
	}

	cur, err := s.repo.Find(ctx, id)
	if err != nil || cur == nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	url, err := s.disk().Put(ctx, key, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("store product image: %w", err)
	}

	row, err := s.repo.Update(ctx, id, map[string]any{"image": url})
	if err != nil || row == nil {
		return nil, err
	}
	s.changed(ctx, "updated", row)
	return row, nil
}

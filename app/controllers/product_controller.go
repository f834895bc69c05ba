package controllers

import (
	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/ctx"
)

type ProductController struct {
	*EntityController[models.Product, services.ProductInput]
	svc *services.ProductService
}

func NewProductController(svc *services.ProductService) *ProductController {
	return &ProductController{
		EntityController: NewEntityController[models.Product, services.ProductInput](svc, "Product", "Products"),
		svc:              svc,
	}
}

// UploadImage handles POST /api/products/{id}/image with a multipart
// "image" field.
func (pc *ProductController) UploadImage(c *ctx.Context) error {
	id, err := c.ParamID("id")
	if err != nil {
		return err
	}
	f, fh, err := c.FormFile("image", int64(config.Int("MAX_UPLOAD_BYTES", 8<<20)))
	if err != nil {
		return err
	}
	defer f.Close()

	row, err := pc.svc.AttachImage(c.Context(), id, fh.Filename, f)
	if err != nil {
		return err
	}
	if row == nil {
		return pc.notFound()
	}
	c.Success("Product image uploaded successfully", row)
	return nil
}

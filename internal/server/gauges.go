package server

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

type counter interface {
	Table() string
	Count(ctx context.Context) (int64, error)
}

// RefreshRowGauges sets bizadmin_db_rows for every entity table.
func RefreshRowGauges(ctx context.Context, svcs *services.Services) error {
	var errs []error
	for _, c := range []counter{svcs.Foods, svcs.Leads, svcs.Products} {
		n, err := c.Count(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		metrics.EntityRows.WithLabelValues(c.Table()).Set(float64(n))
	}
	return errors.Join(errs...)
}

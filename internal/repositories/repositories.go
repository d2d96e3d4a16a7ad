package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/orderboard/services/insights/internal/models"
)

// OrderRepository provides read access to the order reporting table.
type OrderRepository struct {
	db         *gorm.DB // Write database (unused by reports, kept for parity)
	readOnlyDB *gorm.DB // Read-only replica; all report queries go here
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB, readOnlyDB *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:         db,
		readOnlyDB: readOnlyDB,
	}
}

// FetchRange returns every order row whose completion date falls in
// [start, end], both inclusive. Timestamps and credit cost come back as
// raw text; coercion is the analytics package's job.
func (r *OrderRepository) FetchRange(ctx context.Context, start, end time.Time) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := r.readOnlyDB.WithContext(ctx).
		Select("id_order", "order_completion_date", "order_acceptance_date", "costo_creditos", "id_restaurant", "name_restaurant", "created_at").
		Where("order_completion_date::date >= ? AND order_completion_date::date <= ?",
			start.Format("2006-01-02"), end.Format("2006-01-02")).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch order records")
	}
	return records, nil
}

package models

// OrderRecord is a raw row from the orders_details reporting table.
//
// Timestamps and the credit cost are kept as text on purpose: the
// reporting table is fed by an upstream system that occasionally writes
// empty or malformed values, and the tolerant coercion policy belongs to
// the analytics package, not to the database driver.
type OrderRecord struct {
	OrderID        int64  `gorm:"column:id_order" json:"id_order"`
	RestaurantID   int64  `gorm:"column:id_restaurant" json:"id_restaurant"`
	RestaurantName string `gorm:"column:name_restaurant" json:"name_restaurant"`
	AcceptedAt     string `gorm:"column:order_acceptance_date" json:"order_acceptance_date"`
	CompletedAt    string `gorm:"column:order_completion_date" json:"order_completion_date"`
	CreatedAt      string `gorm:"column:created_at" json:"created_at"`
	CreditCost     string `gorm:"column:costo_creditos" json:"costo_creditos"`
}

// TableName maps the record to the reporting table.
func (OrderRecord) TableName() string {
	return "orders_details"
}

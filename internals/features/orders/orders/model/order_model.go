package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   Proyeksi order milik modul order management.
   Modul finance/cancellation hanya baca-tulis kolom di bawah:
   status pickup/deliver, flag cancel, vendor & resi.
   Kolom lain milik workflow order dan tidak disentuh di sini.
========================================================= */

const (
	OrderLegStatusPending   = "pending"
	OrderLegStatusOnProcess = "on_process"
	OrderLegStatusDone      = "done"
	OrderLegStatusCanceled  = "canceled"
)

type Order struct {
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;default:gen_random_uuid();primaryKey" json:"order_id"`

	OrderStatusPickup  string `gorm:"column:order_status_pickup;type:varchar(20);not null;default:'pending'" json:"order_status_pickup"`
	OrderStatusDeliver string `gorm:"column:order_status_deliver;type:varchar(20);not null;default:'pending'" json:"order_status_deliver"`

	OrderIsCanceled bool `gorm:"column:order_is_canceled;not null;default:false" json:"order_is_canceled"`

	OrderVendorName     *string `gorm:"column:order_vendor_name;type:varchar(80)" json:"order_vendor_name,omitempty"`
	OrderTrackingNumber *string `gorm:"column:order_tracking_number;type:varchar(60)" json:"order_tracking_number,omitempty"`

	OrderCreatedAt time.Time      `gorm:"column:order_created_at;autoCreateTime" json:"order_created_at"`
	OrderUpdatedAt time.Time      `gorm:"column:order_updated_at;autoUpdateTime" json:"order_updated_at"`
	OrderDeletedAt gorm.DeletedAt `gorm:"column:order_deleted_at;index" json:"-"`
}

func (Order) TableName() string { return "orders" }

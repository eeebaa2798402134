package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Medicine 药品，is_deleted 为软删除标记，被订单引用的药品不做物理删除
type Medicine struct {
	ID            int64               `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Slug          string              `gorm:"column:slug;size:191;not null;uniqueIndex:idx_medicines_slug" json:"slug"`
	GenericName   string              `gorm:"column:generic_name;size:191;not null" json:"genericName"`
	BrandName     string              `gorm:"column:brand_name;size:191;not null" json:"brandName"`
	Manufacturer  string              `gorm:"column:manufacturer;size:191;not null;index:idx_medicines_manufacturer" json:"manufacturer"`
	Strength      string              `gorm:"column:strength;size:64" json:"strength"`
	DosageForm    DosageForm          `gorm:"column:dosage_form;size:32;not null;default:OTHER" json:"dosageForm"`
	Unit          string              `gorm:"column:unit;size:32" json:"unit"`
	PackSize      int                 `gorm:"column:pack_size;not null;default:1" json:"packSize"`
	DosageInfo    string              `gorm:"column:dosage_info;type:text" json:"dosageInfo,omitempty"`
	Price         decimal.Decimal     `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	PiecePrice    decimal.NullDecimal `gorm:"column:piece_price;type:decimal(12,2)" json:"piecePrice"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0;check:chk_medicines_stock,stock_quantity >= 0" json:"stockQuantity"`
	ExpiryDate    datatypes.Date      `gorm:"column:expiry_date;not null" json:"expiryDate"`
	IsActive      bool                `gorm:"column:is_active;not null;index:idx_medicines_active" json:"isActive"`
	IsDeleted     bool                `gorm:"column:is_deleted;not null;default:false" json:"-"`
	Image         string              `gorm:"column:image;size:512;default:''" json:"image"`
	Description   string              `gorm:"column:description;type:text" json:"description"`
	CategoryID    int64               `gorm:"column:category_id;not null;index:idx_medicines_category" json:"categoryId"`
	SellerID      int64               `gorm:"column:seller_id;not null;index:idx_medicines_seller" json:"sellerId"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// Orderable reports whether customers can currently buy the medicine.
func (m *Medicine) Orderable() bool {
	return m.IsActive && !m.IsDeleted
}

// StockMovement 库存流水，每次增减库存追加一条，不更新不删除
type StockMovement struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	MedicineID   int64          `gorm:"column:medicine_id;not null;index:idx_stock_movements_medicine" json:"medicineId"`
	Operation    StockOperation `gorm:"column:operation;size:8;not null" json:"operation"`
	Delta        int            `gorm:"column:delta;not null" json:"delta"`
	BalanceAfter int            `gorm:"column:balance_after;not null" json:"balanceAfter"`
	Reason       string         `gorm:"column:reason;size:64;not null" json:"reason"`
	OrderID      *int64         `gorm:"column:order_id;index:idx_stock_movements_order" json:"orderId,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

package types

import (
	"time"

	"Pharmetix/models"

	"github.com/shopspring/decimal"
)

type CreateMedicineRequest struct {
	Slug         string              `json:"slug"`
	GenericName  string              `json:"genericName" binding:"required"`
	BrandName    string              `json:"brandName" binding:"required"`
	Manufacturer string              `json:"manufacturer" binding:"required"`
	Strength     string              `json:"strength"`
	DosageForm   models.DosageForm   `json:"dosageForm" binding:"required"`
	Unit         string              `json:"unit"`
	PackSize     int                 `json:"packSize"`
	DosageInfo   string              `json:"dosageInfo"`
	Price        decimal.Decimal     `json:"price"`
	PiecePrice   decimal.NullDecimal `json:"piecePrice"`
	// StockQuantity pointer so an omitted value is distinguishable from 0
	StockQuantity *int      `json:"stockQuantity" binding:"required"`
	ExpiryDate    time.Time `json:"expiryDate" binding:"required"`
	IsActive      *bool     `json:"isActive"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	CategoryID    int64     `json:"categoryId" binding:"required"`
}

// UpdateMedicineRequest nil fields are left untouched
type UpdateMedicineRequest struct {
	Slug          *string             `json:"slug"`
	GenericName   *string             `json:"genericName"`
	BrandName     *string             `json:"brandName"`
	Manufacturer  *string             `json:"manufacturer"`
	Strength      *string             `json:"strength"`
	DosageForm    *models.DosageForm  `json:"dosageForm"`
	Unit          *string             `json:"unit"`
	PackSize      *int                `json:"packSize"`
	DosageInfo    *string             `json:"dosageInfo"`
	Price         *decimal.Decimal    `json:"price"`
	PiecePrice    decimal.NullDecimal `json:"piecePrice"`
	StockQuantity *int                `json:"stockQuantity"`
	ExpiryDate    *time.Time          `json:"expiryDate"`
	IsActive      *bool               `json:"isActive"`
	Image         *string             `json:"image"`
	Description   *string             `json:"description"`
	CategoryID    *int64              `json:"categoryId"`
}

type MedicineListQuery struct {
	PageQuery
	Search       string            `form:"search"`
	Manufacturer string            `form:"manufacturer"`
	CategoryID   *int64            `form:"categoryId"`
	DosageForm   models.DosageForm `form:"dosageForm"`
	PriceMin     string            `form:"priceMin"`
	PriceMax     string            `form:"priceMax"`
	IsActive     *bool             `form:"isActive"`
}

// PriceRange parses the optional price bounds; nil means unbounded.
func (q *MedicineListQuery) PriceRange() (lo, hi *decimal.Decimal, err error) {
	parse := func(s string) (*decimal.Decimal, error) {
		if s == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	if lo, err = parse(q.PriceMin); err != nil {
		return nil, nil, err
	}
	if hi, err = parse(q.PriceMax); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

// MedicineForOrder catalog lookup used while placing orders
type MedicineForOrder struct {
	ID            int64
	SellerID      int64
	Price         decimal.Decimal
	StockQuantity int
}

type MedicineOwnership struct {
	SellerID int64
}

type UploadImageResp struct {
	Url    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

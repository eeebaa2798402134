package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"Pharmetix/dao"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/log"
	"Pharmetix/pkg/snowflake"
	"Pharmetix/pkg/utils"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxImageSize int64 = 5 << 20

// ICatalogLookup medicine facts the order flow needs, read inside the caller's transaction.
type ICatalogLookup interface {
	// GetMedicineForOrder locks the medicine row; nil when missing, inactive or deleted.
	GetMedicineForOrder(ctx context.Context, tx *gorm.DB, id int64) (*types.MedicineForOrder, error)
	// GetMedicineOwnership nil when the medicine is missing or deleted.
	GetMedicineOwnership(ctx context.Context, tx *gorm.DB, id int64) (*types.MedicineOwnership, error)
}

// IObjectStorage is satisfied by pkg/oss.Storage.
type IObjectStorage interface {
	Put(ctx context.Context, objectKey string, body io.Reader, contentType string) error
	URL(objectKey string) string
}

type MedicineService struct {
	DB           *gorm.DB
	MedicineRepo *dao.Medicine
	CategoryRepo *dao.Category
	Stock        IStockService
	Storage      IObjectStorage
}

var (
	_ IMedicineService = (*MedicineService)(nil)
	_ ICatalogLookup   = (*MedicineService)(nil)
)

type IMedicineService interface {
	ListMedicines(ctx context.Context, q *types.MedicineListQuery) (*types.ListResult[*models.Medicine], error)
	ListSellerMedicines(ctx context.Context, sellerID int64, q *types.MedicineListQuery) (*types.ListResult[*models.Medicine], error)
	GetMedicine(ctx context.Context, id int64) (*models.Medicine, error)
	GetMedicineBySlug(ctx context.Context, slug string) (*models.Medicine, error)
	CreateMedicine(ctx context.Context, sellerID int64, req *types.CreateMedicineRequest) (*models.Medicine, error)
	UpdateMedicine(ctx context.Context, sellerID, id int64, req *types.UpdateMedicineRequest) (*models.Medicine, error)
	DeleteMedicine(ctx context.Context, sellerID, id int64) error
	Restock(ctx context.Context, sellerID, id int64, quantity int) (*types.StockAdjustment, error)
	UploadImage(ctx context.Context, sellerID, id int64, file io.ReadSeeker, size int64) (*types.UploadImageResp, error)
}

func (s *MedicineService) GetMedicineForOrder(ctx context.Context, tx *gorm.DB, id int64) (*types.MedicineForOrder, error) {
	med, err := s.MedicineRepo.FindForUpdate(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !med.Orderable() {
		return nil, nil
	}
	return &types.MedicineForOrder{
		ID:            med.ID,
		SellerID:      med.SellerID,
		Price:         med.Price,
		StockQuantity: med.StockQuantity,
	}, nil
}

func (s *MedicineService) GetMedicineOwnership(ctx context.Context, tx *gorm.DB, id int64) (*types.MedicineOwnership, error) {
	var med models.Medicine
	err := s.MedicineRepo.Conn(ctx, tx).
		Select("id", "seller_id").
		Where("is_deleted = ?", false).
		First(&med, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &types.MedicineOwnership{SellerID: med.SellerID}, nil
}

// authorize NotFound for unknown medicines, Forbidden for somebody else's.
func (s *MedicineService) authorize(ctx context.Context, tx *gorm.DB, sellerID, id int64) error {
	own, err := s.GetMedicineOwnership(ctx, tx, id)
	if err != nil {
		return err
	}
	if own == nil {
		return errs.NotFound("medicine with ID %d not found", id)
	}
	if own.SellerID != sellerID {
		return errs.Forbidden("you can only manage your own medicines")
	}
	return nil
}

func medicineFilters(q *types.MedicineListQuery) (dao.Predicates, error) {
	lo, hi, err := q.PriceRange()
	if err != nil {
		return nil, errs.Validation("invalid price range: %s", err.Error())
	}
	return dao.Predicates{
		dao.Raw("is_deleted = ?", false),
		dao.Search(q.Search, "brand_name", "generic_name", "manufacturer", "description"),
		dao.Eq("manufacturer", strings.TrimSpace(q.Manufacturer)),
		dao.EqPtr("category_id", q.CategoryID),
		dao.Eq("dosage_form", q.DosageForm),
		dao.Gte("price", lo),
		dao.Lte("price", hi),
	}, nil
}

// ListMedicines public catalog, active medicines unless isActive says otherwise.
func (s *MedicineService) ListMedicines(ctx context.Context, q *types.MedicineListQuery) (*types.ListResult[*models.Medicine], error) {
	ps, err := medicineFilters(q)
	if err != nil {
		return nil, err
	}
	active := true
	if q.IsActive != nil {
		active = *q.IsActive
	}
	return s.list(ctx, append(ps, dao.EqPtr("is_active", &active)), q.PageQuery)
}

func (s *MedicineService) ListSellerMedicines(ctx context.Context, sellerID int64, q *types.MedicineListQuery) (*types.ListResult[*models.Medicine], error) {
	ps, err := medicineFilters(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, append(ps, dao.Eq("seller_id", sellerID), dao.EqPtr("is_active", q.IsActive)), q.PageQuery)
}

func (s *MedicineService) list(ctx context.Context, ps dao.Predicates, q types.PageQuery) (*types.ListResult[*models.Medicine], error) {
	page := q.Normalize()
	items, total, err := s.MedicineRepo.List(ctx, ps, page)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[*models.Medicine]{Data: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *MedicineService) GetMedicine(ctx context.Context, id int64) (*models.Medicine, error) {
	med, err := s.MedicineRepo.FindVisible(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("medicine with ID %d not found", id)
	}
	return med, err
}

func (s *MedicineService) GetMedicineBySlug(ctx context.Context, slug string) (*models.Medicine, error) {
	med, err := s.MedicineRepo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("medicine %q not found", slug)
	}
	return med, err
}

// checkCategory a medicine may only be attached to an active, non deleted category.
func (s *MedicineService) checkCategory(ctx context.Context, id int64) error {
	cat, err := s.CategoryRepo.FindVisible(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("category with ID %d not found", id)
	}
	if err != nil {
		return err
	}
	if !cat.IsActive {
		return errs.Validation("category is not active, can't add medicine to inactive category")
	}
	return nil
}

func checkExpiry(t time.Time) error {
	if !t.After(time.Now()) {
		return errs.Validation("expiry date must be a future date")
	}
	return nil
}

func checkPrice(price decimal.Decimal, piece decimal.NullDecimal) error {
	if !price.IsPositive() {
		return errs.Validation("price must be greater than zero")
	}
	if piece.Valid && !piece.Decimal.IsPositive() {
		return errs.Validation("piece price must be greater than zero")
	}
	return nil
}

func medicineSlugBase(slug, generic, brand string) string {
	if s := utils.Slugify(slug); s != "" {
		return s
	}
	return utils.Slugify(fmt.Sprintf("generic-%s-brand-%s", generic, brand))
}

func (s *MedicineService) CreateMedicine(ctx context.Context, sellerID int64, req *types.CreateMedicineRequest) (*models.Medicine, error) {
	if req.StockQuantity == nil || *req.StockQuantity < 0 {
		return nil, errs.Validation("stock quantity cannot be negative")
	}
	if !req.DosageForm.Valid() {
		return nil, errs.Validation("unknown dosage form %q", req.DosageForm)
	}
	if err := checkPrice(req.Price, req.PiecePrice); err != nil {
		return nil, err
	}
	if err := checkExpiry(req.ExpiryDate); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, medicineSlugBase(req.Slug, req.GenericName, req.BrandName), 0, s.MedicineRepo.SlugTaken)
	if err != nil {
		return nil, err
	}

	med := &models.Medicine{
		Slug:         slug,
		GenericName:  strings.TrimSpace(req.GenericName),
		BrandName:    strings.TrimSpace(req.BrandName),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		Strength:     req.Strength,
		DosageForm:   req.DosageForm,
		Unit:         req.Unit,
		PackSize:     req.PackSize,
		DosageInfo:   req.DosageInfo,
		Price:        req.Price,
		PiecePrice:   req.PiecePrice,
		ExpiryDate:   datatypes.Date(req.ExpiryDate),
		IsActive:     req.IsActive == nil || *req.IsActive,
		Image:        req.Image,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		SellerID:     sellerID,
	}
	if med.PackSize <= 0 {
		med.PackSize = 1
	}

	// 初始库存也记一笔台账
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.MedicineRepo.Create(ctx, tx, med); err != nil {
			return err
		}
		if *req.StockQuantity == 0 {
			return nil
		}
		adj, err := s.Stock.AdjustStock(ctx, tx, types.StockChange{
			MedicineID: med.ID,
			Operation:  models.StockIncrement,
			Quantity:   *req.StockQuantity,
			Reason:     types.StockReasonInitial,
		})
		if err != nil {
			return err
		}
		med.StockQuantity = adj.NewStockQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.L.Info("medicine created", zap.Int64("medicine_id", med.ID), zap.Int64("seller_id", sellerID))
	return s.GetMedicine(ctx, med.ID)
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, sellerID, id int64, req *types.UpdateMedicineRequest) (*models.Medicine, error) {
	if err := s.authorize(ctx, nil, sellerID, id); err != nil {
		return nil, err
	}
	current, err := s.GetMedicine(ctx, id)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		data["category_id"] = *req.CategoryID
	}
	if req.ExpiryDate != nil {
		if err := checkExpiry(*req.ExpiryDate); err != nil {
			return nil, err
		}
		data["expiry_date"] = datatypes.Date(*req.ExpiryDate)
	}
	price := current.Price
	if req.Price != nil {
		price = *req.Price
		data["price"] = price
	}
	if req.PiecePrice.Valid {
		data["piece_price"] = req.PiecePrice
	}
	if err := checkPrice(price, req.PiecePrice); err != nil {
		return nil, err
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return nil, errs.Validation("stock quantity cannot be negative")
	}
	if req.DosageForm != nil {
		if !req.DosageForm.Valid() {
			return nil, errs.Validation("unknown dosage form %q", *req.DosageForm)
		}
		data["dosage_form"] = *req.DosageForm
	}

	setString := func(column string, v *string) {
		if v != nil {
			data[column] = strings.TrimSpace(*v)
		}
	}
	setString("generic_name", req.GenericName)
	setString("brand_name", req.BrandName)
	setString("manufacturer", req.Manufacturer)
	setString("strength", req.Strength)
	setString("unit", req.Unit)
	setString("dosage_info", req.DosageInfo)
	setString("image", req.Image)
	setString("description", req.Description)
	if req.PackSize != nil && *req.PackSize > 0 {
		data["pack_size"] = *req.PackSize
	}
	if req.IsActive != nil {
		data["is_active"] = *req.IsActive
	}

	// 名称或 slug 变化时重新生成 slug
	generic, brand := current.GenericName, current.BrandName
	if req.GenericName != nil {
		generic = *req.GenericName
	}
	if req.BrandName != nil {
		brand = *req.BrandName
	}
	if req.Slug != nil || generic != current.GenericName || brand != current.BrandName {
		base := ""
		if req.Slug != nil {
			base = *req.Slug
		}
		slug, err := uniqueSlug(ctx, medicineSlugBase(base, generic, brand), id, s.MedicineRepo.SlugTaken)
		if err != nil {
			return nil, err
		}
		data["slug"] = slug
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data) > 0 {
			if _, err := s.MedicineRepo.UpdateById(ctx, tx, id, data); err != nil {
				return err
			}
		}
		if req.StockQuantity == nil {
			return nil
		}
		// 直接改库存也走台账，记录差额
		stock, err := s.MedicineRepo.StockOf(ctx, tx, id)
		if err != nil {
			return err
		}
		delta := *req.StockQuantity - stock
		if delta == 0 {
			return nil
		}
		change := types.StockChange{MedicineID: id, Operation: models.StockIncrement, Quantity: delta, Reason: types.StockReasonSellerEdit}
		if delta < 0 {
			change.Operation, change.Quantity = models.StockDecrement, -delta
		}
		_, err = s.Stock.AdjustStock(ctx, tx, change)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetMedicine(ctx, id)
}

func (s *MedicineService) DeleteMedicine(ctx context.Context, sellerID, id int64) error {
	if err := s.authorize(ctx, nil, sellerID, id); err != nil {
		return err
	}
	return s.MedicineRepo.SoftDelete(ctx, id)
}

func (s *MedicineService) Restock(ctx context.Context, sellerID, id int64, quantity int) (*types.StockAdjustment, error) {
	var out *types.StockAdjustment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.authorize(ctx, tx, sellerID, id); err != nil {
			return err
		}
		var err error
		out, err = s.Stock.AdjustStock(ctx, tx, types.StockChange{
			MedicineID: id,
			Operation:  models.StockIncrement,
			Quantity:   quantity,
			Reason:     types.StockReasonRestock,
		})
		return err
	})
	return out, err
}

func (s *MedicineService) UploadImage(ctx context.Context, sellerID, id int64, file io.ReadSeeker, size int64) (*types.UploadImageResp, error) {
	if err := s.authorize(ctx, nil, sellerID, id); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errs.Validation("missing image")
	}
	// size 来自请求头，不可信，只做第一道拦截
	if size <= 0 || size > maxImageSize {
		return nil, errs.Validation("image size must be between 1 byte and %d bytes", maxImageSize)
	}

	// 1) MIME 校验
	head := make([]byte, 512)
	n, _ := file.Read(head)
	contentType := http.DetectContentType(head[:n])
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, errs.Validation("unsupported image type: %s", contentType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// 2) 读取尺寸，不解码全图
	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, errs.Validation("invalid image: %s", err.Error())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := "." + strings.ToLower(format)
	if format == "jpeg" {
		ext = ".jpg"
	}
	objectKey := fmt.Sprintf("medicines/%s/%d%s", time.Now().Format("2006/01/02"), snowflake.GenID(), ext)

	// 3) 上传并回写药品图片
	if err := s.Storage.Put(ctx, objectKey, io.LimitReader(file, maxImageSize+1), contentType); err != nil {
		log.L.Error("upload medicine image", zap.Int64("medicine_id", id), zap.Error(err))
		return nil, err
	}
	url := s.Storage.URL(objectKey)
	if _, err := s.MedicineRepo.UpdateById(ctx, nil, id, map[string]any{"image": url}); err != nil {
		return nil, err
	}
	return &types.UploadImageResp{Url: url, Width: cfg.Width, Height: cfg.Height}, nil
}

// uniqueSlug appends -1, -2, ... to base until taken reports it free.
func uniqueSlug(ctx context.Context, base string, ignoreID int64, taken func(context.Context, string, int64) (bool, error)) (string, error) {
	if base == "" {
		return "", errs.Validation("either slug or name must be provided")
	}
	slug := base
	for i := 1; ; i++ {
		exists, err := taken(ctx, slug, ignoreID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"Pharmetix/internal/testdb"
	"Pharmetix/models"
	"Pharmetix/pkg/errs"
	"Pharmetix/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMedicineRequest(categoryID int64, stock int) *types.CreateMedicineRequest {
	return &types.CreateMedicineRequest{
		GenericName:   "Paracetamol",
		BrandName:     "Napa",
		Manufacturer:  "Beximco",
		Strength:      "500mg",
		DosageForm:    models.DosageTablet,
		PackSize:      10,
		Price:         decimal.RequireFromString("12.00"),
		StockQuantity: &stock,
		ExpiryDate:    time.Now().AddDate(1, 0, 0),
		CategoryID:    categoryID,
	}
}

func TestCreateMedicine(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)

	med, err := e.medicine.CreateMedicine(ctx, seller.ID, createMedicineRequest(cat.ID, 25))
	require.NoError(t, err)
	assert.Equal(t, "generic-paracetamol-brand-napa", med.Slug)
	assert.Equal(t, 25, med.StockQuantity)
	assert.True(t, med.IsActive)
	require.NotNil(t, med.Category)
	assert.Equal(t, cat.ID, med.Category.ID)

	moves, err := e.stock.Movements(ctx, med.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, types.StockReasonInitial, moves[0].Reason)

	// same names get a numbered slug
	again, err := e.medicine.CreateMedicine(ctx, seller.ID, createMedicineRequest(cat.ID, 0))
	require.NoError(t, err)
	assert.Equal(t, "generic-paracetamol-brand-napa-1", again.Slug)
	assert.Zero(t, again.StockQuantity)

	bySlug, err := e.medicine.GetMedicineBySlug(ctx, again.Slug)
	require.NoError(t, err)
	assert.Equal(t, again.ID, bySlug.ID)
}

func TestCreateMedicine_Validation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	inactive := testdb.Category(t, e.db)
	require.NoError(t, e.db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name   string
		mutate func(r *types.CreateMedicineRequest)
		want   error
	}{
		{"negative stock", func(r *types.CreateMedicineRequest) { r.StockQuantity = ptr(-1) }, errs.ErrValidation},
		{"zero price", func(r *types.CreateMedicineRequest) { r.Price = decimal.Zero }, errs.ErrValidation},
		{"zero piece price", func(r *types.CreateMedicineRequest) { r.PiecePrice = decimal.NewNullDecimal(decimal.Zero) }, errs.ErrValidation},
		{"expired", func(r *types.CreateMedicineRequest) { r.ExpiryDate = time.Now().Add(-time.Hour) }, errs.ErrValidation},
		{"unknown dosage form", func(r *types.CreateMedicineRequest) { r.DosageForm = "POWDER" }, errs.ErrValidation},
		{"inactive category", func(r *types.CreateMedicineRequest) { r.CategoryID = inactive.ID }, errs.ErrValidation},
		{"missing category", func(r *types.CreateMedicineRequest) { r.CategoryID = cat.ID + 100 }, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createMedicineRequest(cat.ID, 5)
			tt.mutate(req)
			_, err := e.medicine.CreateMedicine(ctx, seller.ID, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateMedicine_StockGoesThroughLedger(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	other := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "4.00", 10)

	_, err := e.medicine.UpdateMedicine(ctx, other.ID, med.ID, &types.UpdateMedicineRequest{StockQuantity: ptr(1)})
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = e.medicine.UpdateMedicine(ctx, seller.ID, med.ID, &types.UpdateMedicineRequest{StockQuantity: ptr(-2)})
	assert.ErrorIs(t, err, errs.ErrValidation)

	got, err := e.medicine.UpdateMedicine(ctx, seller.ID, med.ID, &types.UpdateMedicineRequest{
		StockQuantity: ptr(4),
		BrandName:     ptr("Ace"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.StockQuantity)
	assert.Equal(t, "Ace", got.BrandName)
	assert.True(t, strings.HasSuffix(got.Slug, "-brand-ace"))

	moves, err := e.stock.Movements(ctx, med.ID, 10)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, -6, moves[0].Delta)
	assert.Equal(t, types.StockReasonSellerEdit, moves[0].Reason)
}

func TestRestockAndDelete(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	other := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "4.00", 10)

	adj, err := e.medicine.Restock(ctx, seller.ID, med.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, adj.NewStockQuantity)

	_, err = e.medicine.Restock(ctx, seller.ID, med.ID, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)
	_, err = e.medicine.Restock(ctx, other.ID, med.ID, 5)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	assert.ErrorIs(t, e.medicine.DeleteMedicine(ctx, other.ID, med.ID), errs.ErrForbidden)
	require.NoError(t, e.medicine.DeleteMedicine(ctx, seller.ID, med.ID))

	_, err = e.medicine.GetMedicine(ctx, med.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	lookup, err := e.medicine.GetMedicineForOrder(ctx, nil, med.ID)
	require.NoError(t, err)
	assert.Nil(t, lookup, "deleted medicines cannot be ordered")
}

func TestListMedicines(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	cheap := testdb.Medicine(t, e.db, seller.ID, cat.ID, "2.00", 10)
	testdb.Medicine(t, e.db, seller.ID, cat.ID, "30.00", 10)
	hidden := testdb.Medicine(t, e.db, seller.ID, cat.ID, "3.00", 10)
	require.NoError(t, e.db.Model(hidden).Update("is_active", false).Error)

	all, err := e.medicine.ListMedicines(ctx, &types.MedicineListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	filtered, err := e.medicine.ListMedicines(ctx, &types.MedicineListQuery{PriceMax: "5"})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, cheap.ID, filtered.Data[0].ID)

	_, err = e.medicine.ListMedicines(ctx, &types.MedicineListQuery{PriceMin: "cheap"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	search, err := e.medicine.ListMedicines(ctx, &types.MedicineListQuery{Search: strings.ToUpper(cheap.GenericName)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), search.Total)

	own, err := e.medicine.ListSellerMedicines(ctx, seller.ID, &types.MedicineListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), own.Total)
}

func TestUploadImage(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	seller := testdb.User(t, e.db, models.RoleSeller)
	cat := testdb.Category(t, e.db)
	med := testdb.Medicine(t, e.db, seller.ID, cat.ID, "4.00", 10)

	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	resp, err := e.medicine.UploadImage(ctx, seller.ID, med.ID, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Width)
	assert.Equal(t, 3, resp.Height)
	assert.True(t, strings.HasSuffix(resp.Url, ".png"))
	require.Len(t, e.storage.objects, 1)

	got, err := e.medicine.GetMedicine(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Url, got.Image)

	text := []byte("definitely not an image")
	_, err = e.medicine.UploadImage(ctx, seller.ID, med.ID, bytes.NewReader(text), int64(len(text)))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

package handler

import (
	"io"
	"strconv"

	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/errs"
	"Pharmetix/pkg/response"
	"Pharmetix/service"
	"Pharmetix/types"

	"github.com/gin-gonic/gin"
)

type Medicine struct {
	Config          *config.Config
	MedicineService service.IMedicineService
	StockService    service.IStockService
}

func (m *Medicine) RegisterRouter(r gin.IRouter) {
	seller := authorize(m.Config, models.RoleSeller)

	med := r.Group("/v1/medicines")
	med.GET("", context.Wrap(m.ListMedicines))
	med.GET("/seller", seller, context.Wrap(m.ListSellerMedicines))
	med.GET("/slug/:slug", context.Wrap(m.GetMedicineBySlug))
	med.GET("/:id", context.Wrap(m.GetMedicine))
	med.POST("", seller, context.Wrap(m.CreateMedicine))
	med.PATCH("/:id", seller, context.Wrap(m.UpdateMedicine))
	med.DELETE("/:id", seller, context.Wrap(m.DeleteMedicine))
	med.PATCH("/:id/stock", seller, context.Wrap(m.Restock))
	med.GET("/:id/stock-movements", authorize(m.Config, models.RoleSeller, models.RoleAdmin), context.Wrap(m.StockMovements))
	med.POST("/:id/image", seller, context.Wrap(m.UploadImage))
}

func (m *Medicine) ListMedicines(c *gin.Context) error {
	var q types.MedicineListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := m.MedicineService.ListMedicines(c.Request.Context(), &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (m *Medicine) ListSellerMedicines(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.MedicineListQuery
	if err := context.BindQuery(c, &q); err != nil {
		return err
	}
	res, err := m.MedicineService.ListSellerMedicines(c.Request.Context(), uid, &q)
	if err != nil {
		return err
	}
	successList(c, res)
	return nil
}

func (m *Medicine) GetMedicine(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	med, err := m.MedicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, med)
	return nil
}

func (m *Medicine) GetMedicineBySlug(c *gin.Context) error {
	med, err := m.MedicineService.GetMedicineBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	response.Success(c, med)
	return nil
}

func (m *Medicine) CreateMedicine(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateMedicineRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	med, err := m.MedicineService.CreateMedicine(c.Request.Context(), uid, &req)
	if err != nil {
		return err
	}
	response.Created(c, med)
	return nil
}

func (m *Medicine) UpdateMedicine(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateMedicineRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	med, err := m.MedicineService.UpdateMedicine(c.Request.Context(), uid, id, &req)
	if err != nil {
		return err
	}
	response.Success(c, med)
	return nil
}

func (m *Medicine) DeleteMedicine(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := m.MedicineService.DeleteMedicine(c.Request.Context(), uid, id); err != nil {
		return err
	}
	response.Success(c, gin.H{"id": id})
	return nil
}

func (m *Medicine) Restock(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.RestockRequest
	if err := context.BindJSON(c, &req); err != nil {
		return err
	}
	adj, err := m.MedicineService.Restock(c.Request.Context(), uid, id, req.Quantity)
	if err != nil {
		return err
	}
	response.Success(c, adj)
	return nil
}

// StockMovements ledger of one medicine; sellers only see their own.
func (m *Medicine) StockMovements(c *gin.Context) error {
	viewer, err := context.GetViewer(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	med, err := m.MedicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if viewer.IsSeller() && med.SellerID != viewer.ID {
		return errs.Forbidden("you can only view stock of your own medicines")
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	moves, err := m.StockService.Movements(c.Request.Context(), id, limit)
	if err != nil {
		return err
	}
	response.Success(c, moves)
	return nil
}

func (m *Medicine) UploadImage(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	header, err := c.FormFile("image")
	if err != nil {
		return errs.Validation("missing image")
	}
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		return errs.Validation("unreadable image")
	}
	resp, err := m.MedicineService.UploadImage(c.Request.Context(), uid, id, seeker, header.Size)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

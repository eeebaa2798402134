package service

import (
	"Pharmetix/models"
	"Pharmetix/types"
)

// ProjectOrderForViewer is the only place that decides which order fields a role sees.
//   - customer: own order, no customer id, no seller ids
//   - seller:   customer id, only the lines they sell, with seller id
//   - admin:    everything
func ProjectOrderForViewer(order *models.Order, viewer types.Viewer) *types.OrderView {
	view := &types.OrderView{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		TotalAmount:        order.TotalAmount,
		ShippingName:       order.ShippingName,
		ShippingPhone:      order.ShippingPhone,
		ShippingAddress:    order.ShippingAddress,
		ShippingCity:       order.ShippingCity,
		ShippingPostalCode: order.ShippingPostalCode,
		Status:             order.Status,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
		OrderItems:         make([]*types.OrderItemView, 0, len(order.Items)),
	}
	staff := viewer.IsAdmin() || viewer.IsSeller()
	if staff {
		customerID := order.CustomerID
		view.CustomerID = &customerID
	}

	for _, item := range order.Items {
		if viewer.IsSeller() && item.SellerID != viewer.ID {
			continue
		}
		iv := &types.OrderItemView{
			ID:         item.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			SubTotal:   item.SubTotal,
			Status:     item.Status,
			Medicine:   medicineBrief(item.Medicine),
		}
		if staff {
			sellerID := item.SellerID
			iv.SellerID = &sellerID
		}
		view.OrderItems = append(view.OrderItems, iv)
	}
	return view
}

func ProjectOrdersForViewer(orders []*models.Order, viewer types.Viewer) []*types.OrderView {
	out := make([]*types.OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, ProjectOrderForViewer(o, viewer))
	}
	return out
}

// hasItemsOf reports whether sellerID sells at least one line of order.
func hasItemsOf(order *models.Order, sellerID int64) bool {
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

func medicineBrief(m *models.Medicine) *types.MedicineBrief {
	if m == nil {
		return nil
	}
	return &types.MedicineBrief{
		ID:          m.ID,
		Slug:        m.Slug,
		GenericName: m.GenericName,
		BrandName:   m.BrandName,
		Price:       m.Price,
	}
}

func sellerOrderItemView(item *models.OrderItem) *types.SellerOrderItemView {
	v := &types.SellerOrderItemView{
		ID:        item.ID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		SubTotal:  item.SubTotal,
		Status:    item.Status,
		Medicine:  medicineBrief(item.Medicine),
	}
	if o := item.Order; o != nil {
		v.Order = &types.SellerOrderBrief{
			ID:                 o.ID,
			OrderNumber:        o.OrderNumber,
			Status:             o.Status,
			CreatedAt:          o.CreatedAt,
			ShippingName:       o.ShippingName,
			ShippingAddress:    o.ShippingAddress,
			ShippingCity:       o.ShippingCity,
			ShippingPostalCode: o.ShippingPostalCode,
		}
	}
	return v
}

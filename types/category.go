package types

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"isActive"`
	IsFeatured  bool   `json:"isFeatured"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"isActive"`
	IsFeatured  *bool   `json:"isFeatured"`
}

type CategoryListQuery struct {
	PageQuery
	Search     string `form:"search"`
	IsFeatured *bool  `form:"isFeatured"`
}

type CategoryView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	IsActive      bool   `json:"isActive"`
	IsFeatured    bool   `json:"isFeatured"`
	MedicineCount int64  `json:"medicineCount"`
}

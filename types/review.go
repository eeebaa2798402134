package types

type CreateReviewRequest struct {
	Rating     *int   `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
	MedicineID int64  `json:"medicineId" binding:"required"`
	OrderID    int64  `json:"orderId" binding:"required"`
}

type ReviewListQuery struct {
	PageQuery
	Rating *int `form:"rating"`
}

const (
	DefaultLatestReviews = 6
	MinRating            = 0
	MaxRating            = 5
)

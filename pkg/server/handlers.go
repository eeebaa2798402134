package server

import (
	"Pharmetix/handler"
)

type Handlers struct {
	Order    *handler.Order
	Medicine *handler.Medicine
	Category *handler.Category
	Review   *handler.Review
	User     *handler.User
	Stats    *handler.Stats
}

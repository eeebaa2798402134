package handler

import (
	"Pharmetix/config"
	"Pharmetix/models"
	"Pharmetix/pkg/context"
	"Pharmetix/pkg/response"
	"Pharmetix/service"

	"github.com/gin-gonic/gin"
)

type Stats struct {
	Config       *config.Config
	StatsService service.IStatsService
}

func (s *Stats) RegisterRouter(r gin.IRouter) {
	stats := r.Group("/v1/stats")
	stats.GET("/admin", authorize(s.Config, models.RoleAdmin), context.Wrap(s.AdminStats))
	stats.GET("/seller", authorize(s.Config, models.RoleSeller), context.Wrap(s.SellerStats))
}

func (s *Stats) AdminStats(c *gin.Context) error {
	res, err := s.StatsService.AdminStats(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}

func (s *Stats) SellerStats(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	res, err := s.StatsService.SellerStats(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}

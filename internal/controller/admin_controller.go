package controller

import (
	"paper-digest-be/internal/pkg/serverutils"
	"paper-digest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Analytics(ctx *fiber.Ctx) error
	ResetVectorDb(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService     service.IAdminService
	analyticsService service.IAnalyticsService
}

func NewAdminController(adminService service.IAdminService, analyticsService service.IAnalyticsService) IAdminController {
	return &adminController{
		adminService:     adminService,
		analyticsService: analyticsService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Get("analytics", c.Analytics)
	h.Get("logs", c.Logs)
	h.Post("reset-vector-db", c.ResetVectorDb)
}

func (c *adminController) Analytics(ctx *fiber.Ctx) error {
	res, err := c.analyticsService.GetAnalytics(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show analytics", res))
}

func (c *adminController) ResetVectorDb(ctx *fiber.Ctx) error {
	res, err := c.adminService.ResetVectorDb(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Vector store reset", res))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	entries, err := c.adminService.GetLogs(
		ctx.Query("level"),
		ctx.QueryInt("limit", 50),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show logs", entries))
}

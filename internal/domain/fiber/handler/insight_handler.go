package handler

import (
	"time"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/middleware"
	"github.com/fadilmartias/career-coach/internal/usecase"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
)

type InsightHandler struct {
	uc *usecase.InsightUsecase
}

func NewInsightHandler(uc *usecase.InsightUsecase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

func (h *InsightHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/insights", h.Get)
	r.Post("/insights/refresh", middleware.RateLimiter(2, time.Minute), h.Refresh)
	r.Get("/insights/dashboard", h.Dashboard)
	r.Get("/insights/compare", h.Compare)
}

func (h *InsightHandler) Get(c *fiber.Ctx) error {
	insight, err := h.uc.ResolveForUser(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get industry insights",
		Data:    insight,
	})
}

func (h *InsightHandler) Refresh(c *fiber.Ctx) error {
	insight, err := h.uc.RefreshForUser(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success refresh industry insights",
		Data:    insight,
	})
}

func (h *InsightHandler) Dashboard(c *fiber.Ctx) error {
	view, err := h.uc.Dashboard(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get dashboard",
		Data:    view,
	})
}

func (h *InsightHandler) Compare(c *fiber.Ctx) error {
	other := c.Query("industry")
	if other == "" {
		return util.AppErrorResponse(c, apperror.Validation("industry query parameter is required", nil))
	}
	cmp, err := h.uc.Compare(c.UserContext(), identity(c), other)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success compare industries",
		Data:    cmp,
	})
}

package handler

import (
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/usecase"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/users/me", h.Provision)
	r.Get("/users/me", h.Profile)
	r.Put("/users/me/onboarding", h.Onboard)
	r.Get("/users/me/onboarding-status", h.OnboardingStatus)
}

func (h *UserHandler) Provision(c *fiber.Ctx) error {
	var req dto.ProvisionRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return util.AppErrorResponse(c, err)
		}
	}
	user, err := h.uc.Provision(c.UserContext(), identity(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success provision user",
		Data:    user,
	})
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.uc.Profile(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get profile",
		Data:    user,
	})
}

func (h *UserHandler) Onboard(c *fiber.Ctx) error {
	var req dto.OnboardingRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	user, err := h.uc.Onboard(c.UserContext(), identity(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update profile",
		Data:    user,
	})
}

func (h *UserHandler) OnboardingStatus(c *fiber.Ctx) error {
	status, err := h.uc.OnboardingStatus(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get onboarding status",
		Data:    status,
	})
}

package handler

import (
	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/usecase"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
)

type BookmarkHandler struct {
	uc *usecase.BookmarkUsecase
}

func NewBookmarkHandler(uc *usecase.BookmarkUsecase) *BookmarkHandler {
	return &BookmarkHandler{uc: uc}
}

func (h *BookmarkHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/bookmarks", h.List)
	r.Post("/bookmarks", h.Add)
	r.Delete("/bookmarks", h.Remove)
}

func (h *BookmarkHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get bookmarks",
		Data:    list,
	})
}

func (h *BookmarkHandler) Add(c *fiber.Ctx) error {
	var req dto.BookmarkRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	list, err := h.uc.Add(c.UserContext(), identity(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success bookmark question",
		Data:    list,
	})
}

func (h *BookmarkHandler) Remove(c *fiber.Ctx) error {
	var req dto.RemoveBookmarkRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	list, err := h.uc.Remove(c.UserContext(), identity(c), req.Question)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success remove bookmark",
		Data:    list,
	})
}

package handler

import (
	"time"

	"github.com/fadilmartias/career-coach/internal/dto"
	"github.com/fadilmartias/career-coach/internal/middleware"
	"github.com/fadilmartias/career-coach/internal/response"
	"github.com/fadilmartias/career-coach/internal/usecase"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
)

type QuizHandler struct {
	uc *usecase.QuizUsecase
}

func NewQuizHandler(uc *usecase.QuizUsecase) *QuizHandler {
	return &QuizHandler{uc: uc}
}

func (h *QuizHandler) RegisterRoutes(r fiber.Router) {
	generation := middleware.RateLimiter(5, time.Minute)

	r.Post("/quiz/generate", generation, h.Generate)
	r.Post("/quiz/submit", h.Submit)
	r.Get("/assessments", h.Assessments)
	r.Get("/assessments/stats", h.Stats)

	sessions := r.Group("/quiz/sessions")
	sessions.Post("/", generation, h.StartSession)
	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/answer", h.Answer)
	sessions.Post("/:id/navigate", h.Navigate)
	sessions.Get("/:id/hint", h.Hint)
	sessions.Post("/:id/finish", h.Finish)
}

func (h *QuizHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return util.AppErrorResponse(c, err)
		}
	}
	questions, err := h.uc.GenerateQuiz(c.UserContext(), identity(c), req.Category, req.Difficulty)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate quiz",
		Data:    questions,
	})
}

func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	assessment, err := h.uc.SubmitQuiz(c.UserContext(), identity(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success save quiz result",
		Data:    assessment,
	})
}

func (h *QuizHandler) Assessments(c *fiber.Ctx) error {
	page, pageSize := response.NormalizePage(c.QueryInt("page", 1), c.QueryInt("page_size", response.DefaultPageSize))
	rows, pagination, err := h.uc.PageAssessments(c.UserContext(), identity(c), page, pageSize)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get assessments",
		Data:       rows,
		Pagination: pagination,
	})
}

func (h *QuizHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext(), identity(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get assessment stats",
		Data:    stats,
	})
}

func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return util.AppErrorResponse(c, err)
		}
	}
	view, err := h.uc.StartSession(c.UserContext(), identity(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success start quiz session",
		Data:    view,
	})
}

func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.uc.GetSession(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get quiz session",
		Data:    view,
	})
}

func (h *QuizHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	view, err := h.uc.Answer(c.UserContext(), identity(c), c.Params("id"), req.Option)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success answer question",
		Data:    view,
	})
}

func (h *QuizHandler) Navigate(c *fiber.Ctx) error {
	var req dto.NavigateRequest
	if err := bind(c, &req); err != nil {
		return util.AppErrorResponse(c, err)
	}
	view, err := h.uc.Navigate(c.UserContext(), identity(c), c.Params("id"), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success navigate quiz session",
		Data:    view,
	})
}

func (h *QuizHandler) Hint(c *fiber.Ctx) error {
	hint, err := h.uc.Hint(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get hint",
		Data:    fiber.Map{"hint": hint},
	})
}

func (h *QuizHandler) Finish(c *fiber.Ctx) error {
	assessment, view, err := h.uc.FinishSession(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success finish quiz session",
		Data:    fiber.Map{"assessment": assessment, "session": view},
	})
}

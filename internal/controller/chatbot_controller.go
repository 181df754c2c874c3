package controller

import (
	"errors"
	"net/http"

	"hr-helpdesk-be/internal/dto"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/internal/pkg/serverutils"
	"hr-helpdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	CommonQuestions(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatbotService
	logger  logger.ILogger
}

func NewChatbotController(service service.IChatbotService, log logger.ILogger) IChatbotController {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &chatbotController{service: service, logger: log}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask", c.Ask)
	r.Post("/feedback", c.Feedback)
	r.Get("/common-questions", c.CommonQuestions)
	r.Get("/health", c.Health)
}

// Ask answers with HTTP 200 even when answering failed; only a malformed
// request is a client error.
func (c *chatbotController) Ask(ctx *fiber.Ctx) (err error) {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("chatbot", "Ask panicked", map[string]interface{}{
				"session_id": req.SessionId,
				"panic":      r,
			})
			err = ctx.Status(http.StatusOK).JSON(c.service.FailureResponse(&req))
		}
	}()

	res, svcErr := c.service.Ask(ctx.UserContext(), &req)
	if svcErr != nil {
		c.logger.Error("chatbot", "Ask failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      svcErr.Error(),
		})
		return ctx.JSON(c.service.FailureResponse(&req))
	}
	return ctx.JSON(res)
}

func (c *chatbotController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Feedback(ctx.UserContext(), &req); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Question not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Feedback stored successfully", nil))
}

func (c *chatbotController) CommonQuestions(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.CommonQuestions(ctx.Query("language")))
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	res := c.service.Health(ctx.UserContext())
	status := fiber.StatusOK
	if !res.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(res)
}

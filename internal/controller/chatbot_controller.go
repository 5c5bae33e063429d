package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/serverutils"
	"ai-helpdesk-be/internal/service"
	"ai-helpdesk-be/pkg/rag/planner"
	"ai-helpdesk-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Permissions(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.CreateSession)
	h.Get("session", c.GetAllSessions)
	h.Get("session/:id/history", c.GetChatHistory)
	h.Delete("session", c.DeleteSession)
	h.Post("chat", c.SendChat)
	h.Get("permissions", c.Permissions)
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.chatbotService.CreateSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusCreated, res)
}

func (c *chatbotController) GetAllSessions(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.chatbotService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

func (c *chatbotController) GetChatHistory(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.chatbotService.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.DeleteSessionRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.chatbotService.DeleteSession(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, nil)
}

func (c *chatbotController) Permissions(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)

	res, err := c.chatbotService.Permissions(role)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

// SendChat streams the answer as NDJSON: zero or more "token" frames, then
// exactly one "done" or "error" frame. Errors raised before the first frame
// still arrive in-band because headers are already committed.
func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	role, _ := ctx.Locals("role").(string)

	var req dto.SendChatRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/x-ndjson")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	chatbotService := c.chatbotService

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		enc := json.NewEncoder(w)
		wroteTerminal := false

		onFragment := func(f response.Fragment) error {
			event := fragmentToEvent(f)
			if err := enc.Encode(event); err != nil {
				return err
			}
			if f.Type != constant.StreamEventToken {
				wroteTerminal = true
			}
			return w.Flush()
		}

		// The fiber ctx is recycled once the handler returns, so the stream
		// runs on its own deadline-bound context. Cancelling it on exit tears
		// down the backend stream when the client disconnects mid-answer.
		streamCtx, cancel := context.WithTimeout(context.Background(), constant.StreamRequestTimeout)
		defer cancel()

		err := chatbotService.StreamChat(streamCtx, userId, role, &req, onFragment)
		if err != nil && !wroteTerminal {
			_ = enc.Encode(dto.StreamEvent{
				Type:    constant.StreamEventError,
				Message: streamErrorMessage(err),
			})
			_ = w.Flush()
		}
	}))

	return nil
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func fragmentToEvent(f response.Fragment) dto.StreamEvent {
	event := dto.StreamEvent{Type: f.Type, Text: f.Text}

	if f.Type == constant.StreamEventDone {
		event.Citations = citationsToDTO(f.Citations)
	}
	if f.Type == constant.StreamEventError && f.Err != nil {
		event.Message = streamErrorMessage(f.Err)
	}

	return event
}

func citationsToDTO(evidence []planner.Evidence) []dto.CitationDTO {
	citations := make([]dto.CitationDTO, 0, len(evidence))
	for _, ev := range evidence {
		citations = append(citations, dto.CitationDTO{
			SourceId:   ev.SourceId,
			SourceType: ev.SourceType,
			Title:      ev.Title,
			Scope:      ev.Scope,
		})
	}
	return citations
}

// streamErrorMessage keeps in-band stream errors as terse as the HTTP error
// middleware, without leaking internals.
func streamErrorMessage(err error) string {
	switch {
	case dto.IsScopeDenied(err):
		return err.Error()
	case errors.Is(err, dto.ErrUnknownRole):
		return "Unknown role"
	case errors.Is(err, dto.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, dto.ErrBackendTimeout):
		return "Generation backend timed out"
	case errors.Is(err, dto.ErrBackendUnavailable), errors.Is(err, dto.ErrIndexUnavailable):
		return "Service temporarily unavailable"
	default:
		return "Internal server error"
	}
}

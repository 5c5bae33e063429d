package controller

import (
	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/serverutils"
	"ai-helpdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(managerOnly)
	h.Post("", c.Upload)
	h.Get("", c.GetAll)
}

// managerOnly gates the document management surface. Uploading into any
// scope is a curation task, not a per-department one.
func managerOnly(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)
	if role != constant.RoleManager {
		return fiber.NewError(fiber.StatusForbidden, "Manager role required")
	}
	return ctx.Next()
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadDocumentRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.documentService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusAccepted, res)
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.documentService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return serverutils.SuccessResponse(ctx, fiber.StatusOK, res)
}

package controller

import (
	"errors"
	"fmt"
	"io"

	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/pkg/serverutils"
	"pdf-extractor/internal/service"
	"pdf-extractor/pkg/extraction"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type IExtractionController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	SelectFile(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type extractionController struct {
	extractionService service.IExtractionService
	sessionSecret     string
}

func NewExtractionController(extractionService service.IExtractionService, sessionSecret string) IExtractionController {
	return &extractionController{
		extractionService: extractionService,
		sessionSecret:     sessionSecret,
	}
}

func (c *extractionController) RegisterRoutes(r fiber.Router) {
	r.Post("/sessions", c.CreateSession)

	h := r.Group("/session")
	h.Use(serverutils.SessionMiddleware(c.sessionSecret))
	h.Get("/state", c.GetState)
	h.Post("/file", c.SelectFile)
	h.Post("/submit", c.Submit)
	h.Get("/export", c.Export)
}

func (c *extractionController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.extractionService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[any]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Session created",
		Data:    res,
	})
}

func (c *extractionController) GetState(ctx *fiber.Ctx) error {
	res, err := c.extractionService.GetState(ctx.UserContext(), sessionID(ctx))
	if err != nil {
		return toFiberError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get state", res))
}

// SelectFile reads the multipart "file" part; its Content-Type is the declared MIME type.
func (c *extractionController) SelectFile(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile(extraction.FormField)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("multipart field %q is required", extraction.FormField))
	}

	req := dto.SelectFileRequest{
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	doc := extraction.Document{
		Filename: req.Filename,
		MIMEType: req.MimeType,
		Content:  content,
	}
	res, err := c.extractionService.SelectFile(ctx.UserContext(), sessionID(ctx), doc)
	if err != nil {
		return toFiberError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select file", res))
}

func (c *extractionController) Submit(ctx *fiber.Ctx) error {
	res, err := c.extractionService.Submit(ctx.UserContext(), sessionID(ctx))
	if err != nil {
		return toFiberError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success submit", res))
}

func (c *extractionController) Export(ctx *fiber.Ctx) error {
	filename, data, err := c.extractionService.ExportResult(ctx.UserContext(), sessionID(ctx))
	if err != nil {
		return toFiberError(err)
	}

	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Attachment(filename)
	return ctx.Send(data)
}

func sessionID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(serverutils.LocalSessionID).(string)
	return id
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoResult):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}

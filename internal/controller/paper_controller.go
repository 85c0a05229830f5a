package controller

import (
	"errors"
	"path/filepath"
	"strings"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/pkg/serverutils"
	"paper-digest-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaperController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Result(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type paperController struct {
	paperService service.IPaperService
	rateLimiter  fiber.Handler
	uploadDir    string
}

func NewPaperController(paperService service.IPaperService, rateLimiter fiber.Handler, uploadDir string) IPaperController {
	return &paperController{
		paperService: paperService,
		rateLimiter:  rateLimiter,
		uploadDir:    uploadDir,
	}
}

func (c *paperController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/papers/v1")
	// Submission endpoints consume LLM budget; reads do not.
	h.Post("process", c.rateLimiter, c.Process)
	h.Post("upload", c.rateLimiter, c.Upload)
	h.Get("jobs", c.List)
	h.Get("jobs/:id", c.Status)
	h.Get("jobs/:id/result", c.Result)
	h.Get("jobs/:id/export", c.Export)
	h.Delete("jobs/:id", c.Cancel)
}

func (c *paperController) Process(ctx *fiber.Ctx) error {
	var req dto.ProcessPaperRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	res, err := c.paperService.SubmitJob(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Paper queued for processing", res))
}

// Upload accepts a PDF as multipart form data, stores it and queues a job for
// the stored file.
func (c *paperController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' is required")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "only PDF uploads are supported")
	}

	dest := filepath.Join(c.uploadDir, uuid.NewString()+".pdf")
	if err := ctx.SaveFile(file, dest); err != nil {
		return err
	}

	req := dto.ProcessPaperRequest{
		FilePath:  dest,
		UserQuery: ctx.FormValue("user_query"),
	}

	res, err := c.paperService.SubmitJob(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Paper queued for processing", res))
}

func (c *paperController) List(ctx *fiber.Ctx) error {
	res, err := c.paperService.ListJobs(
		ctx.Context(),
		ctx.Query("status"),
		ctx.QueryInt("limit", 0),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list jobs", res))
}

func (c *paperController) Status(ctx *fiber.Ctx) error {
	res, err := c.paperService.GetJobStatus(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show job", res))
}

func (c *paperController) Result(ctx *fiber.Ctx) error {
	res, err := c.paperService.GetJobResult(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show result", res))
}

func (c *paperController) Export(ctx *fiber.Ctx) error {
	payload, err := c.paperService.ExportJob(ctx.Context(), ctx.Params("id"), ctx.Query("format"))
	if err != nil {
		return mapServiceError(err)
	}

	ctx.Set(fiber.HeaderContentType, payload.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+payload.Filename+`"`)
	return ctx.Send(payload.Body)
}

func (c *paperController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.paperService.CancelJob(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Job cancelled", res))
}

// mapServiceError translates the service sentinels into HTTP errors; anything
// unrecognized bubbles up as a 500.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrJobNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotCancellable), errors.Is(err, service.ErrJobNotCompleted):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}

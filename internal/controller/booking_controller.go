package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/pkg/serverutils"
	"studio-booking-be/internal/service"
)

type IBookingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ShowByReference(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	CheckIn(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Reschedule(ctx *fiber.Ctx) error
	AuditTrail(ctx *fiber.Ctx) error
}

type bookingController struct {
	bookingService      service.IBookingService
	cancellationService service.ICancellationService
	auditService        service.IAuditService
}

func NewBookingController(
	bookingService service.IBookingService,
	cancellationService service.ICancellationService,
	auditService service.IAuditService,
) IBookingController {
	return &bookingController{
		bookingService:      bookingService,
		cancellationService: cancellationService,
		auditService:        auditService,
	}
}

func (c *bookingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/booking/v1")
	h.Post("", c.Create)
	h.Get("ref/:reference", c.ShowByReference)

	// Lifecycle transitions and listings are staff operations.
	staff := h.Group("", serverutils.JwtMiddleware, serverutils.StaffOnly)
	staff.Get("", c.List)
	staff.Get(":id", c.Show)
	staff.Put(":id", c.Update)
	staff.Post(":id/confirm", c.Confirm)
	staff.Post(":id/check-in", c.CheckIn)
	staff.Post(":id/complete", c.Complete)
	staff.Post(":id/cancel", c.Cancel)
	staff.Post(":id/reschedule", c.Reschedule)
	staff.Get(":id/audit", c.AuditTrail)
}

func (c *bookingController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookingService.Create(ctx.Context(), actorFrom(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Booking created", res))
}

func (c *bookingController) List(ctx *fiber.Ctx) error {
	date := ctx.Query("date")
	if date == "" {
		return apperror.Validation("query parameter 'date' is required")
	}

	var instructorID *uuid.UUID
	if raw := ctx.Query("instructor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("invalid instructor_id %q", raw)
		}
		instructorID = &id
	}

	res, err := c.bookingService.ListByDate(ctx.Context(), date, instructorID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Bookings listed", res))
}

func (c *bookingController) Show(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.bookingService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking found", res))
}

func (c *bookingController) ShowByReference(ctx *fiber.Ctx) error {
	res, err := c.bookingService.ShowByReference(ctx.Context(), ctx.Params("reference"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking found", res))
}

func (c *bookingController) Update(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	req.ID = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookingService.Update(ctx.Context(), actorFrom(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking updated", res))
}

func (c *bookingController) Confirm(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.bookingService.Confirm(ctx.Context(), id, actorFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking confirmed", res))
}

func (c *bookingController) CheckIn(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.bookingService.CheckIn(ctx.Context(), id, actorFrom(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking checked in", res))
}

func (c *bookingController) Complete(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	// Body is optional: an empty body means the default XP award.
	var req dto.CompleteBookingRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.Validation("invalid request body")
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
	}

	res, err := c.bookingService.Complete(ctx.Context(), id, actorFrom(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Booking completed", res))
}

func (c *bookingController) Cancel(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.Cancel(ctx.Context(), id, actorFrom(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *bookingController) Reschedule(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.RescheduleBookingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.Reschedule(ctx.Context(), id, actorFrom(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *bookingController) AuditTrail(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.auditService.ListForBooking(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit trail", res))
}

func parseIDParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid id %q", ctx.Params("id"))
	}
	return id, nil
}

// actorFrom extracts the authenticated user, if any. Public endpoints run
// without a token, so a missing identity is fine.
func actorFrom(ctx *fiber.Ctx) *uuid.UUID {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

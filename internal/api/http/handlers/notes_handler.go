package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/service"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// NotesHandler manages ticket note endpoints.
type NotesHandler struct {
	service *service.NoteService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(noteService *service.NoteService) *NotesHandler {
	return &NotesHandler{service: noteService}
}

// List GET /tickets/:id/notes.
func (h *NotesHandler) List(c *fiber.Ctx) error {
	notes, err := h.service.ListByTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromNotes(notes))
}

// Create POST /tickets/:id/notes.
func (h *NotesHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details)
	}

	note, err := h.service.Create(c.Context(), c.Params("id"), user.ID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Note added successfully",
		"note":    dto.FromNote(note),
	})
}

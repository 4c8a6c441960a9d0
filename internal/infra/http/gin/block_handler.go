package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hostcal/internal/app/commands"
	blocksapp "hostcal/internal/app/handlers/blocks"
	"hostcal/internal/domain/shared/daterange"
)

type BlockHandler struct {
	Commands commands.Bus
}

type createBlockRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
	Label string    `json:"label"`
	Notes string    `json:"notes"`
	Color string    `json:"color"`
}

func (h BlockHandler) Create(c *gin.Context) {
	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := blocksapp.CreateBlockCommand{
		CommandID:       uuid.NewString(),
		ResourceID:      c.Param("id"),
		Start:           req.Start,
		End:             req.End,
		Label:           req.Label,
		Notes:           req.Notes,
		Color:           req.Color,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[blocksapp.CreateBlockCommand, *blocksapp.CreateBlockResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BlockHandler) Delete(c *gin.Context) {
	cmd := blocksapp.DeleteBlockCommand{
		BlockID:    c.Param("id"),
		ResourceID: c.Query("listing_id"),
	}
	if _, err := commands.Dispatch[blocksapp.DeleteBlockCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h BlockHandler) UpdateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := blocksapp.UpdateNotesCommand{
		BlockID:    c.Param("id"),
		ResourceID: c.Query("listing_id"),
		Notes:      req.Notes,
	}
	if _, err := commands.Dispatch[blocksapp.UpdateNotesCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BlockHandler) CancelBooking(c *gin.Context) {
	cmd := blocksapp.CancelBookingCommand{
		BookingID:  c.Param("id"),
		ResourceID: c.Query("listing_id"),
	}
	if _, err := commands.Dispatch[blocksapp.CancelBookingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondCommandError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, blocksapp.ErrResourceRequired),
		errors.Is(err, blocksapp.ErrBlockIDRequired),
		errors.Is(err, blocksapp.ErrBookingIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, blocksapp.ErrOverlappingBlock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, blocksapp.ErrAvailabilityUnknown):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

var _ BlockHTTP = BlockHandler{}

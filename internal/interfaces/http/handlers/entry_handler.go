package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/interfaces/http/middleware"
	"stagepass.backend/internal/interfaces/http/response"
	"stagepass.backend/internal/usecases"
)

// EntryHandler handles contest entry endpoints
type EntryHandler struct {
	eligibility *usecases.EligibilityUsecase
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(eligibility *usecases.EligibilityUsecase) *EntryHandler {
	return &EntryHandler{eligibility: eligibility}
}

// RequestEntry asks to join a contest. The response says what happens
// next: already entered, free entry granted, or payment required with
// the gateway handle.
// POST /api/v1/entries
func (h *EntryHandler) RequestEntry(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	var input struct {
		ContestID string `json:"contestId" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	contestID, err := uuid.Parse(input.ContestID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	decision, err := h.eligibility.RequestEntry(c.Request.Context(), identity, contestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, decision)
}

// EntryStatus returns the caller's entry for one contest
// GET /api/v1/contests/:id/entry
func (h *EntryHandler) EntryStatus(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	contestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	entry, err := h.eligibility.EntryStatus(c.Request.Context(), identity, contestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// ListMyEntries returns every entry the caller holds
// GET /api/v1/entries
func (h *EntryHandler) ListMyEntries(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	entries, err := h.eligibility.ListMyEntries(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

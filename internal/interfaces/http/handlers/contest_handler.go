package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/interfaces/http/response"
	"stagepass.backend/internal/usecases"
)

// ContestHandler handles contest endpoints, including the admin
// console operations.
type ContestHandler struct {
	contests    *usecases.ContestUsecase
	eligibility *usecases.EligibilityUsecase
	submissions *usecases.SubmissionUsecase
}

// NewContestHandler creates a new contest handler
func NewContestHandler(
	contests *usecases.ContestUsecase,
	eligibility *usecases.EligibilityUsecase,
	submissions *usecases.SubmissionUsecase,
) *ContestHandler {
	return &ContestHandler{
		contests:    contests,
		eligibility: eligibility,
		submissions: submissions,
	}
}

// List lists contests; ?active=true narrows to active ones
// GET /api/v1/contests
func (h *ContestHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	contests, err := h.contests.ListContests(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contests": contests})
}

// Get returns one contest
// GET /api/v1/contests/:id
func (h *ContestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	contest, err := h.contests.GetContest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contest)
}

// Create creates a contest (admin)
// POST /api/v1/admin/contests
func (h *ContestHandler) Create(c *gin.Context) {
	var input entities.CreateContestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contest, err := h.contests.CreateContest(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contest)
}

// Update partially updates a contest (admin)
// PATCH /api/v1/admin/contests/:id
func (h *ContestHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	var input entities.UpdateContestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contest, err := h.contests.UpdateContest(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contest)
}

// SetStage moves a contest to a new stage (admin)
// PUT /api/v1/admin/contests/:id/stage
func (h *ContestHandler) SetStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	var input struct {
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contest, err := h.contests.SetStage(c.Request.Context(), id, input.Stage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contest)
}

// Delete removes a contest; ?force=true cascades entries and videos (admin)
// DELETE /api/v1/admin/contests/:id
func (h *ContestHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	force, _ := strconv.ParseBool(c.Query("force"))
	if err := h.contests.DeleteContest(c.Request.Context(), id, force); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Contestants lists the roster of a contest (admin)
// GET /api/v1/admin/contests/:id/contestants
func (h *ContestHandler) Contestants(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	contestants, err := h.contests.ListContestants(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contestants": contestants})
}

// MarkWinner records a podium position for an entry (admin)
// PUT /api/v1/admin/contests/:id/entries/:entryId/winner
func (h *ContestHandler) MarkWinner(c *gin.Context) {
	contestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid entry id"))
		return
	}

	var input struct {
		Position *int `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	entry, err := h.contests.MarkWinner(c.Request.Context(), contestID, entryID, input.Position)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

// Promote grants one entry's holder a free pass forward (admin)
// POST /api/v1/admin/contests/:id/entries/:entryId/promote
func (h *ContestHandler) Promote(c *gin.Context) {
	contestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid entry id"))
		return
	}

	if err := h.contests.PromoteContestant(c.Request.Context(), contestID, entryID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promoted": true})
}

// BulkPromote promotes several entries at once (admin)
// POST /api/v1/admin/contests/:id/promote
func (h *ContestHandler) BulkPromote(c *gin.Context) {
	contestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	var input struct {
		EntryIDs []uuid.UUID `json:"entryIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	failed := h.contests.BulkPromoteContestants(c.Request.Context(), contestID, input.EntryIDs)
	response.Success(c, http.StatusOK, gin.H{
		"promoted": len(input.EntryIDs) - len(failed),
		"failed":   failed,
	})
}

// PromoteUser grants a user a free entry directly (admin)
// POST /api/v1/admin/users/:id/promote
func (h *ContestHandler) PromoteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	if err := h.eligibility.ApplyPromotion(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promoted": true})
}

// ListUsers lists users for the admin console (admin)
// GET /api/v1/admin/users
func (h *ContestHandler) ListUsers(c *gin.Context) {
	users, err := h.contests.ListUsers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// GetUser returns one user (admin)
// GET /api/v1/admin/users/:id
func (h *ContestHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	user, err := h.contests.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DeleteUser soft-deletes a user account (admin)
// DELETE /api/v1/admin/users/:id
func (h *ContestHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user id"))
		return
	}

	if err := h.contests.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListSubmissions lists submissions, optionally per contest (admin)
// GET /api/v1/admin/submissions
func (h *ContestHandler) ListSubmissions(c *gin.Context) {
	var contestID *uuid.UUID
	if raw := c.Query("contestId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid contest id"))
			return
		}
		contestID = &id
	}

	submissions, err := h.submissions.ListSubmissions(c.Request.Context(), contestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": submissions})
}

// DeleteSubmission removes a submission and its video (admin)
// DELETE /api/v1/admin/submissions/:id
func (h *ContestHandler) DeleteSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid submission id"))
		return
	}

	if err := h.submissions.DeleteSubmission(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

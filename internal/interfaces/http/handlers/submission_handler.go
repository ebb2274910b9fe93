package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/interfaces/http/middleware"
	"stagepass.backend/internal/interfaces/http/response"
	"stagepass.backend/internal/usecases"
)

// MaxVideoSizeBytes caps uploads at 200 MiB
const MaxVideoSizeBytes = 200 << 20

var allowedVideoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".avi": true,
}

// SubmissionHandler handles video submission endpoints
type SubmissionHandler struct {
	submissions *usecases.SubmissionUsecase
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions *usecases.SubmissionUsecase) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Upload accepts the caller's contest video as multipart form data
// with fields "contestId" and "video".
// POST /api/v1/submissions
func (h *SubmissionHandler) Upload(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	contestID, err := uuid.Parse(c.PostForm("contestId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid contest id"))
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Video file is required"))
		return
	}
	if fileHeader.Size > MaxVideoSizeBytes {
		response.Error(c, domainerrors.BadRequest("Video exceeds the 200MB limit"))
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedVideoExts[ext] {
		response.Error(c, domainerrors.BadRequest("Unsupported video format"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Unreadable video file"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	submission, err := h.submissions.AcceptUpload(c.Request.Context(), identity, contestID,
		fileHeader.Filename, fileHeader.Size, contentType, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, submission)
}

// MySubmission returns the caller's submission for one contest
// GET /api/v1/contests/:id/submission
func (h *SubmissionHandler) MySubmission(c *gin.Context) {
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

	submission, err := h.submissions.GetMySubmission(c.Request.Context(), identity, contestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, submission)
}

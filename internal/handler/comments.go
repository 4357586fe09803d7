package handler

import (
	"net/http"

	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// SubmitCommentRequest is the body of POST /comments
type SubmitCommentRequest struct {
	Text     string `json:"text" validate:"notblank,max=5000"`
	Platform string `json:"platform" validate:"omitempty,max=50"`
	URL      string `json:"url" validate:"omitempty,url,max=2048"`
}

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	Text string `json:"text" validate:"notblank,max=5000"`
}

// CommentHandlers serves comment intake and direct analysis
type CommentHandlers struct {
	queue    CommentQueue
	detector DetectionService
}

// NewCommentHandlers creates comment handlers
func NewCommentHandlers(q CommentQueue, detector DetectionService) *CommentHandlers {
	return &CommentHandlers{queue: q, detector: detector}
}

// HandleSubmit queues a comment for classification
// @Summary Submit a comment
// @Description Queues comment text for classification and progression scoring
// @Tags comments
// @Accept json
// @Produce json
// @Param request body SubmitCommentRequest true "Comment"
// @Success 202 {object} domain.Comment
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /comments [post]
func (h *CommentHandlers) HandleSubmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitCommentRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Submit comment"); err != nil {
			return
		}

		platform := req.Platform
		if platform == "" {
			platform = domain.PlatformAPI
		}

		comment, err := h.queue.Enqueue(r.Context(), domain.Comment{
			Text:     req.Text,
			Platform: platform,
			URL:      req.URL,
		})
		if err != nil {
			respondServiceError(w, r, "Submit comment", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCommentAccepted, logger.AttrKeyCommentID, comment.ID, "platform", comment.Platform)
		respondJSON(w, http.StatusAccepted, comment)
	}
}

// HandleQueueStatus reports queue counters
// @Summary Queue status
// @Tags comments
// @Produce json
// @Success 200 {object} queue.Status
// @Security ApiKeyAuth
// @Router /queue [get]
func (h *CommentHandlers) HandleQueueStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.queue.Status())
	}
}

// HandleAnalyze runs text through the cascade without touching progression
// @Summary Analyze text
// @Description Classifies text with the detection cascade. Nothing is queued or scored.
// @Tags detection
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Text"
// @Success 200 {object} domain.ClassificationResult
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /analyze [post]
func (h *CommentHandlers) HandleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Analyze"); err != nil {
			return
		}
		respondJSON(w, http.StatusOK, h.detector.Analyze(r.Context(), req.Text))
	}
}

package handler

import (
	"net/http"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// redactedKey is what GET returns for a stored key; sending it back keeps the key
const redactedKey = "********"

// DetectionConfigRequest is the body of PUT /detection/config. Omitted
// fields keep their current value; an empty endpoint clears it.
type DetectionConfigRequest struct {
	Endpoint       *string `json:"endpoint" validate:"omitempty,url"`
	APIKey         *string `json:"api_key"`
	TimeoutMs      *int    `json:"timeout_ms" validate:"omitempty,gte=0,lte=120000"`
	EnableFallback *bool   `json:"enable_fallback"`
}

// merge applies the fields present in req on top of current
func (req DetectionConfigRequest) merge(current detection.Config) detection.Config {
	next := current
	if req.Endpoint != nil {
		next.Endpoint = *req.Endpoint
	}
	if req.APIKey != nil && *req.APIKey != redactedKey {
		next.APIKey = *req.APIKey
	}
	if req.TimeoutMs != nil {
		next.TimeoutMs = *req.TimeoutMs
	}
	if req.EnableFallback != nil {
		next.EnableFallback = *req.EnableFallback
	}
	return next
}

// DetectionHandlers manage the cascade configuration
type DetectionHandlers struct {
	detector DetectionService
	settings DetectionSettingsStore
}

// NewDetectionHandlers creates detection handlers. settings may be nil, in
// which case updates live only in memory.
func NewDetectionHandlers(detector DetectionService, settings DetectionSettingsStore) *DetectionHandlers {
	return &DetectionHandlers{detector: detector, settings: settings}
}

// HandleGetConfig returns the active configuration with the API key redacted
// @Summary Get detection configuration
// @Tags detection
// @Produce json
// @Success 200 {object} detection.Config
// @Security ApiKeyAuth
// @Router /detection/config [get]
func (h *DetectionHandlers) HandleGetConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.detector.Config().Redacted())
	}
}

// HandleUpdateConfig merges the request into the configuration, persists it,
// then swaps it into the running cascade
// @Summary Update detection configuration
// @Description Omitted fields keep their current value. An empty endpoint disables the custom tier. A redacted api_key keeps the stored key.
// @Tags detection
// @Accept json
// @Produce json
// @Param request body DetectionConfigRequest true "Configuration"
// @Success 200 {object} detection.Config
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /detection/config [put]
func (h *DetectionHandlers) HandleUpdateConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DetectionConfigRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update detection config"); err != nil {
			return
		}

		ctx := r.Context()
		current := h.detector.Config()
		next := req.merge(current)
		if err := next.Validate(); err != nil {
			respondServiceError(w, r, "Update detection config", err)
			return
		}

		// persisted first so a failed save leaves the running config untouched
		if h.settings != nil {
			if err := h.settings.Save(ctx, next); err != nil {
				logger.FromContext(ctx).Error(ErrMsgSaveConfigFailed, "error", err)
				respondError(w, http.StatusInternalServerError, ErrMsgSaveConfigFailed)
				return
			}
		}

		if err := h.detector.UpdateConfig(ctx, next); err != nil {
			if h.settings != nil {
				if rbErr := h.settings.Save(ctx, current); rbErr != nil {
					logger.FromContext(ctx).Error(ErrMsgSaveConfigFailed, "error", rbErr)
				}
			}
			respondServiceError(w, r, "Update detection config", err)
			return
		}

		logger.FromContext(ctx).Info(LogMsgDetectionUpdated, "endpoint_set", next.HasEndpoint())
		respondJSON(w, http.StatusOK, next.Redacted())
	}
}

// HandleTestConnection classifies a fixed sample so the caller can see which tier answers
// @Summary Test the detection cascade
// @Tags detection
// @Produce json
// @Success 200 {object} domain.ClassificationResult
// @Security ApiKeyAuth
// @Router /detection/test [post]
func (h *DetectionHandlers) HandleTestConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := h.detector.TestConnection(r.Context())
		logger.FromContext(r.Context()).Info(LogMsgDetectionTestDone, "model_used", result.ModelUsed)
		respondJSON(w, http.StatusOK, result)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
)

const maxImageBytes = 10 << 20 // 10 MB

// AssistantMessageHandler godoc
// @Summary Send one message to the assistant
// @Description Plans the turn with the reasoning service, executes the planned operations, and returns the summarized reply
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body AssistantMessageRequest true "User turn"
// @Success 200 {object} agent.TurnResponse
// @Failure 502 {object} map[string]any
// @Router /assistant/message [post]
func AssistantMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req AssistantMessageRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	resp, err := assistant.HandleTurn(r.Context(), agent.TurnRequest{
		Instruction: req.Message,
		History:     req.History,
		ImageToken:  req.ImageToken,
	})
	if err != nil {
		if errors.Is(err, agent.ErrReasoningService) {
			logger.Error("assistant turn failed", zap.String("phase", resp.Phase), zap.Error(err))
			// Executed operations are already committed; surface them so
			// the client can show what actually happened.
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":       "sorry, the assistant is unavailable right now",
				"detail":      err.Error(),
				"phase":       resp.Phase,
				"invocations": resp.Invocations,
			})
			return
		}
		http.Error(w, "assistant error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AssistantImageHandler godoc
// @Summary Upload an image for the next assistant turn
// @Description Stores the image and returns a single-use token that expires if not spent
// @Tags assistant
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} ImageUploadResult
// @Failure 400 {string} string "Invalid file"
// @Router /assistant/image [post]
func AssistantImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "file must be an image", http.StatusBadRequest)
		return
	}

	desc, err := assetStore.Save(r.Context(), header.Filename, contentType, file)
	if err != nil {
		logger.Error("storing image failed", zap.Error(err))
		http.Error(w, "could not store image", http.StatusInternalServerError)
		return
	}

	token, err := imageCache.Put(r.Context(), imagecache.Entry{
		AssetID:     desc.AssetID,
		StorageKey:  desc.Key,
		Bucket:      desc.Bucket,
		URL:         desc.URL,
		Filename:    desc.Filename,
		ContentType: desc.ContentType,
		Size:        desc.Size,
	})
	if err != nil {
		logger.Error("caching image context failed", zap.Error(err))
		http.Error(w, "could not register image", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, ImageUploadResult{
		ImageToken:       token,
		URL:              desc.URL,
		ExpiresInSeconds: int(imageCache.TTL().Seconds()),
	})
}

// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/croppulse/croppulse/services/api/datatypes"
	"github.com/croppulse/croppulse/services/api/observability"
	"github.com/croppulse/croppulse/services/llm"
)

// HandleChat forwards a chat turn to the language model and returns
// the answer with the updated history.
func HandleChat(llmClient llm.LLMClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ChatRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		requestID := uuid.New().String()
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		messages := append(req.ConversationHistory, llm.Message{
			Role:    "user",
			Content: req.Message,
		})

		answer, err := llmClient.Chat(c.Request.Context(), messages, llm.GenerationParams{})
		observability.RecordExternalCall("llm", err)
		if err != nil {
			slog.Error("Chat generation failed", "request_id", requestID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "chat backend unavailable"})
			return
		}

		history := append(messages, llm.Message{Role: "assistant", Content: answer})
		slog.Info("Chat turn served", "request_id", requestID, "session_id", sessionID)

		c.JSON(http.StatusOK, datatypes.ChatResponse{
			RequestID:           requestID,
			SessionID:           sessionID,
			Response:            answer,
			ConversationHistory: history,
		})
	}
}

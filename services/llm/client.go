// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm provides the language model backends behind the chat
// assistant and the supplier recommendation advisor.
package llm

import (
	"context"
	"fmt"
	"os"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error)
}

// NewClientFromEnv selects a backend from LLM_BACKEND_TYPE. Unset or
// "demo" yields the rule-based demo client so the platform runs without
// any API key.
func NewClientFromEnv() (LLMClient, error) {
	backend := os.Getenv("LLM_BACKEND_TYPE")
	switch backend {
	case "", "demo":
		return NewDemoClient(), nil
	case "openai":
		return NewOpenAIClient()
	default:
		return nil, fmt.Errorf("unknown LLM_BACKEND_TYPE %q", backend)
	}
}

// Copyright (C) 2025 CropPulse Labs (engineering@croppulse.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DemoClient is a rule-based backend used when no real model is
// configured. Chat answers come from keyword rules; prompts that ask
// for a JSON array of supplier ids get a deterministic ranking so the
// recommendation pipeline works end to end in demos.
type DemoClient struct {
	now func() time.Time
}

func NewDemoClient() *DemoClient {
	return &DemoClient{now: time.Now}
}

var candidateIDPattern = regexp.MustCompile(`(?m)^\s*-\s*id=(\d+)`)

// greetingPattern matches whole words only, so "shipment" or "which"
// does not read as "hi".
var greetingPattern = regexp.MustCompile(`\b(hello|hi|hey)\b`)

// Generate implements the LLMClient interface.
func (d *DemoClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if ids := candidateIDPattern.FindAllStringSubmatch(prompt, -1); len(ids) > 0 &&
		strings.Contains(prompt, "JSON") {
		return demoRanking(ids), nil
	}
	return d.reply(prompt), nil
}

// Chat implements the LLMClient interface.
func (d *DemoClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	return d.reply(messages[len(messages)-1].Content), nil
}

func (d *DemoClient) reply(text string) string {
	lower := strings.ToLower(text)
	switch {
	case greetingPattern.MatchString(lower):
		return "Hello! I can help you track suppliers, stock levels and climate alerts. What would you like to know?"
	case strings.Contains(lower, "how are you"):
		return "All systems running. How can I help with your supply chain today?"
	case strings.Contains(lower, "help"):
		return "You can ask me about supplier risk, stock levels, transport routes or climate conditions at your supplier sites."
	case strings.Contains(lower, "weather") || strings.Contains(lower, "climate"):
		return "Check the dashboard map for per-supplier climate conditions, or ask about a specific supplier."
	case strings.Contains(lower, "time"):
		return "The current server time is " + d.now().UTC().Format(time.RFC1123) + "."
	default:
		return "I am running in demo mode without a language model. Try asking about suppliers, stock, routes or climate risk."
	}
}

// demoRanking returns the first three candidate ids as the strict JSON
// array the advisor expects.
func demoRanking(matches [][]string) string {
	type alt struct {
		SupplierID int64  `json:"supplier_id"`
		Reasoning  string `json:"reasoning"`
	}
	alts := []alt{}
	for _, m := range matches {
		if len(alts) == 3 {
			break
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		alts = append(alts, alt{
			SupplierID: id,
			Reasoning:  "Ranked by listed order in demo mode.",
		})
	}
	out, _ := json.Marshal(alts)
	return string(out)
}

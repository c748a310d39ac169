package agents

import (
	"context"
	"fmt"

	"careguide/internal/logging"
	"careguide/internal/reasoning"
)

// ChatFallback is returned when the reasoning call behind a chat turn
// fails. The conversation degrades, it never errors.
const ChatFallback = "I'm sorry, I ran into a problem answering that. Please try asking again."

const chatSystemPrompt = `You are a friendly health assistant discussing a patient's preventive
care report with them. You have their summary and their full checklist.

Rules:
- Answer only from the report and summary you were given. If the answer
  is not there, say so plainly.
- Use plain language a patient understands. Expand clinical shorthand.
- Never diagnose and never change the report. Suggest talking to a
  clinician for anything beyond the report's contents.
- Keep answers short; a few sentences unless asked for detail.`

// Chat answers free-form questions about a completed health report.
type Chat struct {
	llm reasoning.LLMClient
}

// NewChat constructs a Chat agent.
func NewChat(llm reasoning.LLMClient) *Chat {
	return &Chat{llm: llm}
}

// Answer responds to one question about the report. It always returns
// text; a failed reasoning call yields the fallback message.
func (c *Chat) Answer(ctx context.Context, question, patientSummary, reportJSON string) string {
	prompt := fmt.Sprintf("Patient summary:\n%s\n\nHealth report:\n%s\n\nPatient question: %s",
		patientSummary, reportJSON, question)

	reply, err := c.llm.CompleteWithSystem(ctx, chatSystemPrompt, prompt)
	if err != nil {
		logging.ReasoningError("chat turn failed: %v", err)
		return ChatFallback
	}
	return reply
}

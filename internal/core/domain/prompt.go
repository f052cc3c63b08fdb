package domain

import (
	"fmt"
	"strings"
)

// DefaultPersona is used when no persona name is configured.
const DefaultPersona = "the portfolio owner"

// SystemPrompt returns the fixed system prompt establishing the
// first-person persona, register, and grounding discipline.
func SystemPrompt(persona string) string {
	if persona == "" {
		persona = DefaultPersona
	}
	return "You are " + persona + " speaking in first person to recruiters. " +
		"Be concise (10-25 seconds when spoken). Keep answers grounded in the provided context. " +
		"If unsure, offer to follow up by email or phone call. " +
		"If no specific question is asked or the input is unclear, respond with: 'Sorry, I didn't get that'. " +
		"Tone: professional, confident, friendly."
}

// BuildUserPrompt renders retrieved context strings under 1-indexed
// [[CTX i]] labels, in rank order, followed by the literal question.
// The label format is part of the observable contract; do not change it.
func BuildUserPrompt(question string, contexts []string, persona string) string {
	if persona == "" {
		persona = DefaultPersona
	}
	labeled := make([]string, len(contexts))
	for i, c := range contexts {
		labeled[i] = fmt.Sprintf("[[CTX %d]]\n%s", i+1, c)
	}
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer as %s.",
		strings.Join(labeled, "\n\n"), question, persona)
}

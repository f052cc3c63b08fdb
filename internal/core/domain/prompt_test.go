package domain

import (
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt("Miguel")
	if !strings.HasPrefix(p, "You are Miguel speaking in first person") {
		t.Errorf("unexpected prompt prefix: %q", p)
	}
	if !strings.Contains(p, "grounded in the provided context") {
		t.Error("prompt missing grounding instruction")
	}
	if !strings.Contains(p, "Sorry, I didn't get that") {
		t.Error("prompt missing fallback line")
	}

	// Empty persona falls back to the default
	p = SystemPrompt("")
	if !strings.Contains(p, DefaultPersona) {
		t.Errorf("expected default persona in prompt, got %q", p)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("What is your experience?", []string{"Context 1", "Context 2"}, "Miguel")

	for _, want := range []string{
		"Context:",
		"[[CTX 1]]\nContext 1",
		"[[CTX 2]]\nContext 2",
		"Question: What is your experience?",
		"Answer as Miguel.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildUserPromptNoContexts(t *testing.T) {
	got := BuildUserPrompt("Hello?", nil, "Miguel")
	if !strings.Contains(got, "Question: Hello?") {
		t.Errorf("prompt missing question: %q", got)
	}
	if strings.Contains(got, "[[CTX") {
		t.Errorf("expected no context labels, got %q", got)
	}
}

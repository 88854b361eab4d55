package prompt

import (
	"fmt"
	"strings"

	"creativestudio/internal/domain"
)

// ComposeToolPrompt merges the configured edit tools into the user prompt.
// isTool reports whether any tool instruction was added; tool operations
// skip enhancement.
func ComposeToolPrompt(prompt string, tools *domain.EditTools) (final string, isTool bool) {
	toolPrompt := toolInstruction(tools)
	prompt = strings.TrimSpace(prompt)
	if toolPrompt == "" {
		return prompt, false
	}
	if prompt == "" {
		return toolPrompt, true
	}
	return prompt + ". " + toolPrompt, true
}

func toolInstruction(tools *domain.EditTools) string {
	if tools == nil {
		return ""
	}
	var out string
	switch tools.BackgroundMode {
	case domain.BackgroundRemove:
		out = "Remove the background completely, make it transparent or white."
	case domain.BackgroundReplace:
		if tools.BackgroundPrompt != "" {
			out = "Replace the background with: " + tools.BackgroundPrompt
		}
	case domain.BackgroundBlur:
		out = "Apply a professional blur effect to the background, keeping the subject sharp and in focus."
	}
	if swap := tools.ColorSwap; swap != nil && swap.TargetColor != "" && swap.ReplaceColor != "" {
		color := fmt.Sprintf("Change all %s colors to %s.", swap.TargetColor, swap.ReplaceColor)
		if out == "" {
			out = color
		} else {
			out += " " + color
		}
	}
	return out
}

package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/stronghold/internal/models"
	"github.com/tatianab/stronghold/internal/world"
)

//go:embed prompts/narrate_battle.txt
var narrateBattlePrompt string

//go:embed prompts/narrate_turn.txt
var narrateTurnPrompt string

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Narrator turns game events into prose. Narration is decoration: callers
// log failures and carry on.
type Narrator interface {
	NarrateBattle(ctx context.Context, report *world.BattleReport) (string, error)
	NarrateTurn(ctx context.Context, summary TurnSummary) (string, error)
}

// TurnSummary is what the chronicler knows about the turn that just ended.
type TurnSummary struct {
	Turn       int
	Kingdom    string
	Population int
	Happiness  int
	Resources  models.Resources
	Events     []string
}

type silentNarrator struct{}

func (silentNarrator) NarrateBattle(context.Context, *world.BattleReport) (string, error) {
	return "", nil
}

func (silentNarrator) NarrateTurn(context.Context, TurnSummary) (string, error) {
	return "", nil
}

// GeminiNarrator asks a Gemini model for herald lines.
type GeminiNarrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiNarrator(ctx context.Context, apiKey, modelName string) (*GeminiNarrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.9)
	return &GeminiNarrator{client: client, model: model}, nil
}

func (n *GeminiNarrator) Close() error {
	return n.client.Close()
}

func (n *GeminiNarrator) NarrateBattle(ctx context.Context, report *world.BattleReport) (string, error) {
	prompt, err := renderPrompt("narrate_battle", narrateBattlePrompt, report)
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

func (n *GeminiNarrator) NarrateTurn(ctx context.Context, summary TurnSummary) (string, error) {
	prompt, err := renderPrompt("narrate_turn", narrateTurnPrompt, summary)
	if err != nil {
		return "", err
	}
	return n.generate(ctx, prompt)
}

func (n *GeminiNarrator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

func renderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/stronghold/internal/config"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/engine"
	"github.com/tatianab/stronghold/internal/logging"
)

const (
	maxTurns       = 10
	actionsPerTurn = 3
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load("", nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.HasGemini() {
		log.Fatalf("GEMINI_API_KEY is not set")
	}

	logger, err := logging.New("simulate", logging.Options{Level: cfg.LogLevel, Console: os.Stderr})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	narrator, err := engine.NewGeminiNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create narrator: %v", err)
	}
	defer narrator.Close()
	eng := engine.NewEngine(dice.New(cfg.Seed), logger, engine.WithNarrator(narrator))

	// The player is a second model that only sees what a human would.
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.GeminiModel)

	session, err := engine.NewSession(engine.Options{KingdomName: cfg.KingdomName, MapSize: cfg.MapSize}, eng.Rand())
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	fmt.Printf("Kingdom: %s at (%d,%d)\n\n", session.Human().Name, session.Human().X, session.Human().Y)

	var history []string
	for session.Turn <= maxTurns && !session.Over {
		fmt.Printf("--- Turn %d ---\n", session.Turn)
		for i := 0; i < actionsPerTurn; i++ {
			status, _ := eng.ProcessTurn(ctx, session, "status")
			action := getPlayerAction(ctx, playerModel, status, history)
			if strings.EqualFold(action, "end") {
				break
			}
			fmt.Printf("Player Action: %s\n", action)
			outcome, err := eng.ProcessTurn(ctx, session, action)
			if err != nil {
				outcome = "Rejected: " + err.Error()
			}
			fmt.Printf("Outcome: %s\n", outcome)
			history = append(history, fmt.Sprintf("> %s\n%s", action, outcome))
		}

		summary, err := eng.ProcessTurn(ctx, session, "end")
		if errors.Is(err, engine.ErrGameOver) {
			break
		}
		if err != nil {
			fmt.Printf("Error ending turn: %v\n", err)
			break
		}
		fmt.Printf("%s\n\n", summary)
		history = append(history, summary)
	}

	if session.Over {
		fmt.Println("Game Ended: the kingdom has fallen.")
		return
	}
	status, _ := eng.ProcessTurn(ctx, session, "status")
	fmt.Printf("Game Ended after %d turns.\n%s\n", maxTurns, status)
}

// getPlayerAction asks the player model for one command, falling back to
// ending the turn when it has nothing usable to say.
func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, status string, history []string) string {
	if len(history) > 12 {
		history = history[len(history)-12:]
	}
	prompt := fmt.Sprintf(`You are playing Stronghold, a turn-based kingdom strategy game.

Available commands:
%s

Your kingdom:
%s

Recent events:
%s

Reply with exactly one command and nothing else. Reply "end" to finish the turn.`,
		engine.HelpText(),
		status,
		strings.Join(history, "\n\n"),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "end"
	}
	action := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	action = strings.Trim(action, "`\"")
	if action == "" {
		return "end"
	}
	return action
}

// Package engine runs a game of Stronghold: it turns the player's commands
// into actions on the session and resolves the end of each turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/dice"
)

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong arguments")
	ErrGameOver       = errors.New("the game is over")
	ErrTreatyInForce  = errors.New("a treaty is in force; declare war first")
)

// Recorder stores chronicle events.
type Recorder interface {
	Record(ctx context.Context, e chronicle.Event) error
	Recent(ctx context.Context, session string, limit int) ([]chronicle.Event, error)
}

type Engine struct {
	rng      dice.Rand
	narrator Narrator
	recorder Recorder
	log      *zap.Logger
}

type Option func(*Engine)

// WithNarrator adds prose to battle reports and turn summaries.
func WithNarrator(n Narrator) Option {
	return func(e *Engine) {
		if n != nil {
			e.narrator = n
		}
	}
}

// WithRecorder keeps a chronicle of every notable event.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

func NewEngine(rng dice.Rand, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		rng:      rng,
		narrator: silentNarrator{},
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rand exposes the engine's random source so callers can set up games with it.
func (e *Engine) Rand() dice.Rand {
	return e.rng
}

// readOnly commands still work once the game is over.
var readOnly = map[string]bool{
	"status": true, "help": true, "map": true, "territory": true, "treaties": true,
	"prices": true, "offers": true, "inbox": true, "chronicle": true,
}

// ProcessTurn runs one player command and returns what to show. Rejected
// commands return an error and leave the session unchanged.
func (e *Engine) ProcessTurn(ctx context.Context, s *Session, action string) (string, error) {
	fields := strings.Fields(action)
	if len(fields) == 0 {
		return "", ErrEmptyCommand
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]
	if s.Over && !readOnly[verb] {
		return "", ErrGameOver
	}
	log := e.log.With(zap.String("session", s.ID), zap.Int("turn", s.Turn), zap.String("command", verb))

	out, err := e.dispatch(ctx, s, verb, args)
	if err != nil {
		log.Debug("command rejected", zap.Strings("args", args), zap.Error(err))
		return "", err
	}
	log.Debug("command done")
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, s *Session, verb string, args []string) (string, error) {
	switch verb {
	case "help":
		return HelpText(), nil
	case "status":
		return formatStatus(s, s.Human()), nil
	case "build":
		return e.build(ctx, s, args)
	case "upgrade":
		return e.upgrade(ctx, s, args)
	case "recruit":
		return e.recruit(ctx, s, args)
	case "train":
		return e.train(ctx, s, args)
	case "taxes":
		return e.taxes(ctx, s, args)
	case "research":
		return e.research(ctx, s, args)
	case "population":
		return e.population(ctx, s, args)
	case "fortify":
		return e.fortify(ctx, s, args)
	case "spy":
		return e.spy(ctx, s, args)
	case "attack":
		return e.attack(ctx, s, args)
	case "war":
		return e.war(ctx, s, args)
	case "treaty":
		return e.treaty(ctx, s, args)
	case "break":
		return e.breakTreaty(ctx, s, args)
	case "treaties":
		return e.treaties(s, args)
	case "prices":
		return formatPrices(s.Market), nil
	case "buy":
		return e.buy(ctx, s, args)
	case "sell":
		return e.sell(ctx, s, args)
	case "trade":
		return e.trade(ctx, s, args)
	case "offers":
		return formatOffers(s.Market.OffersFor(s.Human().Name)), nil
	case "accept":
		return e.respond(ctx, s, args, true)
	case "reject":
		return e.respond(ctx, s, args, false)
	case "msg":
		return e.message(ctx, s, args)
	case "inbox":
		return formatInbox(s.Courier.Read(s.Human().Name)), nil
	case "chronicle":
		return e.chronicle(ctx, s, args)
	case "map":
		return s.Grid.Render() + strings.Join(s.Grid.Legend(), "\n"), nil
	case "territory":
		return e.territory(s, args)
	case "move":
		return e.move(ctx, s, args)
	case "expand":
		return e.expand(s, args)
	case "end":
		return e.EndTurn(ctx, s)
	}
	return "", fmt.Errorf("%w: %q (try help)", ErrUnknownCommand, verb)
}

// record appends an event to the chronicle. Failures are logged only.
func (e *Engine) record(ctx context.Context, s *Session, kind, actor, target, text string) {
	if e.recorder == nil {
		return
	}
	err := e.recorder.Record(ctx, chronicle.Event{
		Session: s.ID,
		Turn:    s.Turn,
		Kind:    kind,
		Actor:   actor,
		Target:  target,
		Text:    text,
	})
	if err != nil {
		e.log.Warn("chronicle write failed", zap.String("kind", kind), zap.Error(err))
	}
}

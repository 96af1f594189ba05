package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/diplomacy"
	"github.com/tatianab/stronghold/internal/models"
)

// commandHelp lists every command with its arguments, in menu order.
var commandHelp = [][2]string{
	{"status", "show your kingdom"},
	{"build <farm|market|quarry|sawmill>", "construct a building"},
	{"upgrade <n>", "upgrade building number n"},
	{"recruit <n>", "hire n soldiers (10 gold, 5 food each)"},
	{"train <soldiers|archers|cavalry|siege> <n>", "train units for gold"},
	{"taxes", "collect taxes (costs happiness)"},
	{"research <agriculture|economy|construction|military>", "research a technology"},
	{"population <happiness|growth>", "spend on your people"},
	{"fortify", "50 stone and 100 gold for 10 soldiers"},
	{"spy <kingdom>", "inspect a rival for 50 gold"},
	{"attack <kingdom>", "raid a kingdom within 3 cells"},
	{"war <kingdom>", "declare war"},
	{"treaty <kingdom> <peace|alliance|trade|nonaggression> <turns>", "sign a treaty"},
	{"break <kingdom>", "break a treaty"},
	{"treaties", "list treaties and relations"},
	{"prices", "show market prices"},
	{"buy <food|wood|stone> <n>", "buy from the market"},
	{"sell <food|wood|stone> <n>", "sell to the market"},
	{"trade <kingdom> <g f w s> for <g f w s>", "offer a trade"},
	{"offers", "list trade offers for you"},
	{"accept <id>", "accept a trade offer"},
	{"reject <id>", "reject a trade offer"},
	{"msg <kingdom> <text>", "send a message"},
	{"inbox", "read your messages"},
	{"chronicle [n]", "show the last n recorded events"},
	{"map", "show the world map"},
	{"territory", "show your influence"},
	{"move <x> <y>", "move your capital"},
	{"expand", "spread your influence"},
	{"end", "end the turn"},
	{"help", "show this list"},
}

func HelpText() string {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, c := range commandHelp {
		fmt.Fprintf(&sb, "  %-40s %s\n", c[0], c[1])
	}
	return strings.TrimRight(sb.String(), "\n")
}

func usage(verb string) error {
	for _, c := range commandHelp {
		if strings.HasPrefix(c[0], verb+" ") || c[0] == verb {
			return fmt.Errorf("%w: %s", ErrUsage, c[0])
		}
	}
	return ErrUsage
}

func wantArgs(verb string, args []string, n int) error {
	if len(args) != n {
		return usage(verb)
	}
	return nil
}

func parseCount(verb, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usage(verb)
	}
	if n > models.MaxAmount || n < -models.MaxAmount {
		return 0, fmt.Errorf("%s %s: %w", verb, arg, models.ErrAmountTooLarge)
	}
	return n, nil
}

func (e *Engine) build(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("build", args, 1); err != nil {
		return "", err
	}
	kind, err := models.ParseBuildingKind(args[0])
	if err != nil {
		return "", err
	}
	k := s.Human()
	b, err := k.Build(kind)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("Built a %s (+%d %s per turn) for %s.", b.Name, b.BoostAmount, b.Boost, kind.Cost)
	e.record(ctx, s, chronicle.KindEconomy, k.Name, "", out)
	return out, nil
}

func (e *Engine) upgrade(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("upgrade", args, 1); err != nil {
		return "", err
	}
	n, err := parseCount("upgrade", args[0])
	if err != nil {
		return "", err
	}
	k := s.Human()
	b, err := k.UpgradeBuilding(n - 1)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("%s upgraded to level %d (+%d %s per turn).", b.Name, b.Level, b.BoostAmount, b.Boost)
	e.record(ctx, s, chronicle.KindEconomy, k.Name, "", out)
	return out, nil
}

func (e *Engine) recruit(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("recruit", args, 1); err != nil {
		return "", err
	}
	n, err := parseCount("recruit", args[0])
	if err != nil {
		return "", err
	}
	if err := s.Human().Recruit(n); err != nil {
		return "", err
	}
	return fmt.Sprintf("Recruited %d soldiers.", n), nil
}

func (e *Engine) train(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("train", args, 2); err != nil {
		return "", err
	}
	unit, err := models.ParseUnitType(args[0])
	if err != nil {
		return "", err
	}
	n, err := parseCount("train", args[1])
	if err != nil {
		return "", err
	}
	if err := s.Human().TrainTroops(unit, n); err != nil {
		return "", err
	}
	return fmt.Sprintf("Trained %d %s for %d gold.", n, unit, n*unit.TrainingCost()), nil
}

func (e *Engine) taxes(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("taxes", args, 0); err != nil {
		return "", err
	}
	k := s.Human()
	tax := k.CollectTaxes()
	return fmt.Sprintf("Collected %d gold in taxes. Happiness is now %d.", tax, k.Happiness), nil
}

func (e *Engine) research(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("research", args, 1); err != nil {
		return "", err
	}
	kind, err := models.ParseTechnology(args[0])
	if err != nil {
		return "", err
	}
	k := s.Human()
	name := models.TechnologyName(kind)
	if k.Research(kind) {
		out := fmt.Sprintf("Researched %s. Research points: %d.", name, k.Technology.ResearchPoints)
		e.record(ctx, s, chronicle.KindEconomy, k.Name, "", out)
		return out, nil
	}
	if k.Technology.Advanced(kind) {
		return fmt.Sprintf("%s is already known. Scholars still earned points: %d.", name, k.Technology.ResearchPoints), nil
	}
	return fmt.Sprintf("Not enough research points for %s. Scholars earned points: %d/%d.",
		name, k.Technology.ResearchPoints, models.ResearchCost), nil
}

func (e *Engine) population(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("population", args, 1); err != nil {
		return "", err
	}
	var choice models.PopulationChoice
	switch strings.ToLower(args[0]) {
	case "happiness":
		choice = models.RaiseHappiness
	case "growth":
		choice = models.BoostPopulation
	default:
		return "", usage("population")
	}
	k := s.Human()
	if err := k.ManagePopulation(choice); err != nil {
		return "", err
	}
	return fmt.Sprintf("Population %d, happiness %d.", k.Population, k.Happiness), nil
}

func (e *Engine) fortify(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("fortify", args, 0); err != nil {
		return "", err
	}
	if err := s.Human().Fortify(); err != nil {
		return "", err
	}
	return "Walls raised and 10 soldiers posted.", nil
}

// rival resolves a kingdom argument other than the player's own.
func rival(s *Session, name string) (*models.Kingdom, error) {
	k, err := s.Kingdom(name)
	if err != nil {
		return nil, err
	}
	if k == s.Human() {
		return nil, fmt.Errorf("%w: that is your own kingdom", ErrUnknownKingdom)
	}
	return k, nil
}

func (e *Engine) spy(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("spy", args, 1); err != nil {
		return "", err
	}
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	report, err := s.Human().Spy(target)
	if err != nil {
		return "", err
	}
	return formatReport(report), nil
}

func (e *Engine) attack(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("attack", args, 1); err != nil {
		return "", err
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	if s.Diplomacy.Has(k.Name, target.Name) {
		return "", fmt.Errorf("%s: %w", target.Name, ErrTreatyInForce)
	}
	report, err := s.Grid.Attack(k, target, e.rng)
	if err != nil {
		return "", err
	}
	out := report.String()
	e.log.Info("battle",
		zap.String("attacker", report.Attacker),
		zap.String("defender", report.Defender),
		zap.Int("attack", report.AttackPower),
		zap.Int("defense", report.DefensePower),
		zap.Bool("attacker_won", report.AttackerWon),
	)
	e.record(ctx, s, chronicle.KindBattle, k.Name, target.Name, out)
	if prose, err := e.narrator.NarrateBattle(ctx, report); err != nil {
		e.log.Warn("battle narration failed", zap.Error(err))
	} else if prose != "" {
		out += "\n\n" + prose
	}
	return out, nil
}

func (e *Engine) war(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("war", args, 1); err != nil {
		return "", err
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	hadTreaty := s.Diplomacy.Has(k.Name, target.Name)
	if err := s.Diplomacy.DeclareWar(k.Name, target.Name); err != nil {
		return "", err
	}
	out := fmt.Sprintf("%s declares war on %s!", k.Name, target.Name)
	if hadTreaty {
		out = "The treaty is torn up. " + out
	}
	e.record(ctx, s, chronicle.KindDiplomacy, k.Name, target.Name, out)
	e.notify(s, k.Name, target.Name, out)
	return out, nil
}

func (e *Engine) treaty(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("treaty", args, 3); err != nil {
		return "", err
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	kind, err := diplomacy.ParseTreatyType(args[1])
	if err != nil {
		return "", err
	}
	turns, err := parseCount("treaty", args[2])
	if err != nil {
		return "", err
	}
	t, err := s.Diplomacy.Propose(k.Name, target.Name, kind, turns, s.Turn)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("%s treaty signed with %s until turn %d.", t.Type, target.Name, t.ExpiresAt())
	e.record(ctx, s, chronicle.KindDiplomacy, k.Name, target.Name, out)
	return out, nil
}

func (e *Engine) breakTreaty(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("break", args, 1); err != nil {
		return "", err
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	t, err := s.Diplomacy.Break(k.Name, target.Name)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("%s treaty with %s broken.", t.Type, target.Name)
	e.record(ctx, s, chronicle.KindDiplomacy, k.Name, target.Name, out)
	e.notify(s, k.Name, target.Name, out)
	return out, nil
}

func (e *Engine) treaties(s *Session, args []string) (string, error) {
	if err := wantArgs("treaties", args, 0); err != nil {
		return "", err
	}
	name := s.Human().Name
	return formatDiplomacy(name, s.Diplomacy.ActiveFor(name), s.Diplomacy.Relations(name)), nil
}

func (e *Engine) buy(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("buy", args, 2); err != nil {
		return "", err
	}
	kind, err := models.ParseResourceType(args[0])
	if err != nil {
		return "", err
	}
	n, err := parseCount("buy", args[1])
	if err != nil {
		return "", err
	}
	cost, err := s.Market.Buy(s.Human(), kind, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Bought %d %s for %d gold.", n, kind, cost), nil
}

func (e *Engine) sell(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("sell", args, 2); err != nil {
		return "", err
	}
	kind, err := models.ParseResourceType(args[0])
	if err != nil {
		return "", err
	}
	n, err := parseCount("sell", args[1])
	if err != nil {
		return "", err
	}
	earned, err := s.Market.Sell(s.Human(), kind, n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sold %d %s for %d gold.", n, kind, earned), nil
}

func parseBundle(verb string, args []string) (models.Resources, error) {
	var v [4]int
	for i := range v {
		n, err := parseCount(verb, args[i])
		if err != nil {
			return models.Resources{}, err
		}
		v[i] = n
	}
	return models.Resources{Gold: v[0], Food: v[1], Wood: v[2], Stone: v[3]}, nil
}

func (e *Engine) trade(ctx context.Context, s *Session, args []string) (string, error) {
	if len(args) != 10 || !strings.EqualFold(args[5], "for") {
		return "", usage("trade")
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	offering, err := parseBundle("trade", args[1:5])
	if err != nil {
		return "", err
	}
	requesting, err := parseBundle("trade", args[6:10])
	if err != nil {
		return "", err
	}
	o, err := s.Market.ProposeTrade(k.Name, target.Name, offering, requesting)
	if err != nil {
		return "", err
	}
	out := fmt.Sprintf("Offer %s sent to %s: %s for %s. They will answer at the end of the turn.",
		o.ShortID(), target.Name, o.Offering, o.Requesting)
	e.record(ctx, s, chronicle.KindTrade, k.Name, target.Name, o.String())
	return out, nil
}

func (e *Engine) respond(ctx context.Context, s *Session, args []string, accept bool) (string, error) {
	verb := "reject"
	if accept {
		verb = "accept"
	}
	if err := wantArgs(verb, args, 1); err != nil {
		return "", err
	}
	offer, err := s.Market.Find(args[0])
	if err != nil {
		return "", err
	}
	offerer, err := s.Kingdom(offer.Offerer)
	if err != nil {
		return "", err
	}
	k := s.Human()
	if _, err := s.Market.Respond(offer.ID, k, offerer, accept); err != nil {
		return "", err
	}
	out := fmt.Sprintf("Rejected the offer from %s.", offerer.Name)
	if accept {
		out = fmt.Sprintf("Traded %s to %s for %s.", offer.Requesting, offerer.Name, offer.Offering)
	}
	e.record(ctx, s, chronicle.KindTrade, k.Name, offerer.Name, out)
	e.notify(s, k.Name, offerer.Name, fmt.Sprintf("%s %sed your offer.", k.Name, verb))
	return out, nil
}

func (e *Engine) message(ctx context.Context, s *Session, args []string) (string, error) {
	if len(args) < 2 {
		return "", usage("msg")
	}
	k := s.Human()
	target, err := rival(s, args[0])
	if err != nil {
		return "", err
	}
	if err := s.Courier.Send(k.Name, target.Name, strings.Join(args[1:], " ")); err != nil {
		return "", err
	}
	e.record(ctx, s, chronicle.KindMessage, k.Name, target.Name, "message sent")
	return fmt.Sprintf("Message sent to %s.", target.Name), nil
}

// notify sends an automatic message. A full courier drops it.
func (e *Engine) notify(s *Session, from, to, text string) {
	if err := s.Courier.Send(from, to, text); err != nil {
		e.log.Debug("message dropped", zap.String("to", to), zap.Error(err))
	}
}

func (e *Engine) chronicle(ctx context.Context, s *Session, args []string) (string, error) {
	limit := 10
	switch len(args) {
	case 0:
	case 1:
		n, err := parseCount("chronicle", args[0])
		if err != nil || n <= 0 {
			return "", usage("chronicle")
		}
		limit = n
	default:
		return "", usage("chronicle")
	}
	if e.recorder == nil {
		return "No chronicle is being kept.", nil
	}
	events, err := e.recorder.Recent(ctx, s.ID, limit)
	if err != nil {
		return "", err
	}
	return formatEvents(events), nil
}

func (e *Engine) territory(s *Session, args []string) (string, error) {
	if err := wantArgs("territory", args, 0); err != nil {
		return "", err
	}
	k := s.Human()
	out, err := s.Grid.RenderTerritory(k.Name)
	if err != nil {
		return "", err
	}
	return out + fmt.Sprintf("Cells under firm control (influence 50+): %d", s.Grid.ControlledCells(k.Name, 50)), nil
}

func (e *Engine) move(ctx context.Context, s *Session, args []string) (string, error) {
	if err := wantArgs("move", args, 2); err != nil {
		return "", err
	}
	x, err := parseCount("move", args[0])
	if err != nil {
		return "", err
	}
	y, err := parseCount("move", args[1])
	if err != nil {
		return "", err
	}
	k := s.Human()
	if err := s.Grid.Move(k, x, y); err != nil {
		return "", err
	}
	out := fmt.Sprintf("%s moved its seat to (%d,%d).", k.Name, x, y)
	e.record(ctx, s, chronicle.KindSystem, k.Name, "", out)
	return out, nil
}

func (e *Engine) expand(s *Session, args []string) (string, error) {
	if err := wantArgs("expand", args, 0); err != nil {
		return "", err
	}
	k := s.Human()
	if err := s.Grid.Expand(k); err != nil {
		return "", err
	}
	return fmt.Sprintf("Influence now reaches %d cells.", s.Grid.ControlledCells(k.Name, 1)), nil
}

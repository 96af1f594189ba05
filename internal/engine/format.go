package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/comms"
	"github.com/tatianab/stronghold/internal/diplomacy"
	"github.com/tatianab/stronghold/internal/market"
	"github.com/tatianab/stronghold/internal/models"
)

func comma(v int) string {
	return humanize.Comma(int64(v))
}

func formatResources(r models.Resources) string {
	return fmt.Sprintf("Gold %s  Food %s  Wood %s  Stone %s",
		comma(r.Gold), comma(r.Food), comma(r.Wood), comma(r.Stone))
}

func formatMilitary(m models.Military) string {
	return fmt.Sprintf("%d soldiers, %d archers, %d cavalry, %d siege (attack %d, defense %d)",
		m.Soldiers, m.Archers, m.Cavalry, m.Siege, m.AttackPower(), m.DefensePower())
}

func formatTechnology(t models.Technology) string {
	var known []string
	for _, kind := range models.AllResourceTypes() {
		if t.Advanced(kind) {
			known = append(known, models.TechnologyName(kind))
		}
	}
	if len(known) == 0 {
		known = []string{"none"}
	}
	return fmt.Sprintf("%s (research points %d)", strings.Join(known, ", "), t.ResearchPoints)
}

func formatBuildings(buildings []models.Building) string {
	if len(buildings) == 0 {
		return "none"
	}
	parts := make([]string, len(buildings))
	for i, b := range buildings {
		parts[i] = fmt.Sprintf("%d. %s L%d (+%d %s)", i+1, b.Name, b.Level, b.BoostAmount, b.Boost)
	}
	return strings.Join(parts, ", ")
}

func formatStatus(s *Session, k *models.Kingdom) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, turn %d, seat at (%d,%d)\n", k.Name, s.Turn, k.X, k.Y)
	fmt.Fprintf(&sb, "Population %s  Happiness %d\n", comma(k.Population), k.Happiness)
	fmt.Fprintf(&sb, "%s\n", formatResources(k.Resources))
	fmt.Fprintf(&sb, "Army: %s\n", formatMilitary(k.Military))
	fmt.Fprintf(&sb, "Technology: %s\n", formatTechnology(k.Technology))
	fmt.Fprintf(&sb, "Buildings: %s\n", formatBuildings(k.Buildings))
	fmt.Fprintf(&sb, "Unread messages: %d  Trade offers: %d",
		s.Courier.Unread(k.Name), len(s.Market.OffersFor(k.Name)))
	if s.Over {
		sb.WriteString("\nYour kingdom has fallen.")
	}
	return sb.String()
}

func formatReport(r models.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Spies report on %s at (%d,%d):\n", r.Name, r.X, r.Y)
	fmt.Fprintf(&sb, "Population %s  Happiness %d\n", comma(r.Population), r.Happiness)
	fmt.Fprintf(&sb, "%s\n", formatResources(r.Resources))
	fmt.Fprintf(&sb, "Army: %s\n", formatMilitary(r.Military))
	fmt.Fprintf(&sb, "Technology: %s\n", formatTechnology(r.Technology))
	fmt.Fprintf(&sb, "Buildings: %s", formatBuildings(r.Buildings))
	return sb.String()
}

func formatPrices(m *market.Market) string {
	var sb strings.Builder
	sb.WriteString("Market prices (buy / sell, in gold):")
	for _, kind := range models.AllResourceTypes() {
		if kind == models.Gold {
			continue
		}
		fmt.Fprintf(&sb, "\n  %-5s %4d / %d", kind, m.Price(kind), m.SellPrice(kind))
	}
	return sb.String()
}

func formatOffers(offers []market.Offer) string {
	if len(offers) == 0 {
		return "No trade offers."
	}
	var sb strings.Builder
	sb.WriteString("Trade offers:")
	for _, o := range offers {
		fmt.Fprintf(&sb, "\n  [%s] %s gives %s and wants %s", o.ShortID(), o.Offerer, o.Offering, o.Requesting)
	}
	return sb.String()
}

func formatInbox(msgs []comms.Message) string {
	if len(msgs) == 0 {
		return "No messages."
	}
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		state := "[Unread]"
		if m.Read {
			state = "[Read]"
		}
		fmt.Fprintf(&sb, "%s From %s: %s", state, m.Sender, m.Content)
	}
	return sb.String()
}

func formatDiplomacy(name string, treaties []diplomacy.Treaty, relations []diplomacy.Relation) string {
	var sb strings.Builder
	if len(treaties) == 0 {
		sb.WriteString("No active treaties.")
	} else {
		sb.WriteString("Treaties:")
		for _, t := range treaties {
			fmt.Fprintf(&sb, "\n  %s with %s until turn %d", t.Type, t.Other(name), t.ExpiresAt())
		}
	}
	if len(relations) > 0 {
		sb.WriteString("\nRelations:")
		for _, r := range relations {
			fmt.Fprintf(&sb, "\n  %-12s %s (%+d)", r.With, r.Status, r.Score)
		}
	}
	return sb.String()
}

func formatEvents(events []chronicle.Event) string {
	if len(events) == 0 {
		return "The chronicle is empty."
	}
	var sb strings.Builder
	// Oldest first reads like a chronicle.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		fmt.Fprintf(&sb, "Turn %d [%s] %s", e.Turn, e.Kind, e.Text)
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

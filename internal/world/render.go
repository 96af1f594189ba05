package world

import (
	"fmt"
	"strings"
)

// Render draws the occupancy map: '.' for empty cells, the 1-based slot
// number for occupied ones.
func (g *Grid) Render() string {
	var sb strings.Builder
	g.header(&sb)
	for y := 0; y < g.height; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < g.width; x++ {
			v := g.cells[g.index(x, y)]
			if v == 0 {
				sb.WriteString(" .")
			} else {
				fmt.Fprintf(&sb, "%2d", v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderTerritory draws one kingdom's influence layer.
func (g *Grid) RenderTerritory(name string) (string, error) {
	slot := g.SlotOf(name)
	if slot < 0 {
		return "", fmt.Errorf("%s: %w", name, ErrNotPlaced)
	}
	var sb strings.Builder
	g.header(&sb)
	for y := 0; y < g.height; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < g.width; x++ {
			sb.WriteByte(' ')
			sb.WriteByte(InfluenceGlyph(g.influence[slot][g.index(x, y)]))
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// InfluenceGlyph buckets an influence value for display.
func InfluenceGlyph(v int) byte {
	switch {
	case v >= 75:
		return '#'
	case v >= 50:
		return 'O'
	case v >= 25:
		return 'o'
	case v > 0:
		return '.'
	}
	return ' '
}

func (g *Grid) header(sb *strings.Builder) {
	sb.WriteString("   ")
	for x := 0; x < g.width; x++ {
		fmt.Fprintf(sb, "%2d", x)
	}
	sb.WriteByte('\n')
}

// Legend lists slot numbers next to kingdom names.
func (g *Grid) Legend() []string {
	var out []string
	for i, n := range g.slots {
		if n != "" {
			out = append(out, fmt.Sprintf("%d = %s", i+1, n))
		}
	}
	return out
}

package grid

import (
	"fmt"
	"gridweaver/internal/core"
	"strings"
)

// Tile runes accepted by ParseASCII
const (
	RuneFloor  = '.'
	RuneWall   = '#'
	RuneDoor   = '+'
	RuneWindow = '='
)

// ParseASCII builds a map from text rows, one rune per cell.
// Row 0 is the top of the map (y = 0).
func ParseASCII(rows []string) (*Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("parse ascii: %w", ErrInvalidDimensions)
	}

	width := len([]rune(rows[0]))
	m, err := NewMap(width, len(rows))
	if err != nil {
		return nil, fmt.Errorf("parse ascii: %w", err)
	}

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("parse ascii: row %d has %d cells, want %d: %w", y, len(runes), width, ErrRaggedRows)
		}
		for x, r := range runes {
			tile, err := tileFromRune(r)
			if err != nil {
				return nil, fmt.Errorf("parse ascii: cell (%d,%d): %w", x, y, err)
			}
			m.tiles[m.PointToIndex(core.Point{X: x, Y: y})] = tile
		}
	}

	return m, nil
}

// MustParseASCII is ParseASCII for fixed literals; it panics on malformed input
func MustParseASCII(rows ...string) *Map {
	m, err := ParseASCII(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the map back to its ASCII form
func (m *Map) String() string {
	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			sb.WriteRune(runeFromTile(m.tiles[m.PointToIndex(core.Point{X: x, Y: y})]))
		}
		if y < m.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func tileFromRune(r rune) (TileType, error) {
	switch r {
	case RuneFloor:
		return TileFloor, nil
	case RuneWall:
		return TileWall, nil
	case RuneDoor:
		return TileDoor, nil
	case RuneWindow:
		return TileWindow, nil
	default:
		return 0, fmt.Errorf("%q: %w", r, ErrUnknownTile)
	}
}

func runeFromTile(t TileType) rune {
	switch t {
	case TileWall:
		return RuneWall
	case TileDoor:
		return RuneDoor
	case TileWindow:
		return RuneWindow
	default:
		return RuneFloor
	}
}

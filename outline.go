package userlogic

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrOutsideOutline is returned when a vertex lies outside the floor outline.
var ErrOutsideOutline = errors.New("vertex outside the room outline")

// SetOutline sets the floor plan of the room. Vertices are checked against
// it by Validate.
func (g *RoomGraph) SetOutline(p orb.Polygon) {
	g.outline = p
}

// Outline is the floor plan of the room, nil if none was given.
func (g *RoomGraph) Outline() orb.Polygon { return g.outline }

// Area returns the centre and the floor area in m² of the room. Without an
// outline the bounding box of the vertices is used.
func (g *RoomGraph) Area() (centre orb.Point, area float64) {
	if len(g.outline) == 0 {
		return planar.CentroidArea(g.Bound())
	}
	return planar.CentroidArea(g.outline)
}

func (g *RoomGraph) checkOutline() error {
	if len(g.outline) == 0 {
		return nil
	}
	for _, v := range g.vertices {
		if !planar.PolygonContains(g.outline, v.Position) {
			return fmt.Errorf("%w: %s at %v", ErrOutsideOutline, v.ID, v.Position)
		}
	}
	return nil
}

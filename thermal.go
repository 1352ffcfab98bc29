package userlogic

import (
	"fmt"

	"github.com/paulmach/orb"
)

const (
	initialSurfaceArea = 2.0
	// skin surface in m² spread over the body height in m
	skinSurfaceArea = 2.0
	bodyHeight      = 1.8
)

// ThermalMaterial classifies how an object exchanges heat.
type ThermalMaterial int

const (
	Air ThermalMaterial = iota
	Human
	Wall
	Glass
	Metal
)

func (m ThermalMaterial) String() string {
	switch m {
	case Air:
		return "air"
	case Human:
		return "human"
	case Wall:
		return "wall"
	case Glass:
		return "glass"
	case Metal:
		return "metal"
	}
	return fmt.Sprintf("ThermalMaterial(%d)", int(m))
}

// ThermalObject is anything that takes part in the thermal simulation.
// Implementations are expected to be pointer types: the field tells objects
// apart by identity.
type ThermalObject interface {
	Position() orb.Point
	ThermalTemperature() Temperature
	ThermalSurfaceArea() float64
	ThermalMaterial() ThermalMaterial
	// CanNotChangePosition is true for objects fixed in place.
	CanNotChangePosition() bool
	// ThermalStart is called once when the field takes the object in.
	ThermalStart(f ThermalField)
	// ThermalUpdate is called once per thermal update with the heat in J
	// that was transferred to the object.
	ThermalUpdate(transferredHeat float64, f ThermalField)
}

var _ ThermalObject = (*Agent)(nil)

// ThermalTemperature is the body temperature of the user.
func (a *Agent) ThermalTemperature() Temperature {
	return Temperature(a.opts.BodyTemperature)
}

// ThermalSurfaceArea is the area in m² exchanging heat with one field cell.
func (a *Agent) ThermalSurfaceArea() float64 { return a.surfaceArea }

// ThermalMaterial of a user.
func (a *Agent) ThermalMaterial() ThermalMaterial { return Human }

// CanNotChangePosition is false, users walk.
func (a *Agent) CanNotChangePosition() bool { return false }

// Size of the user in m.
func (a *Agent) Size() orb.Point { return orb.Point{1, 1} }

// ThermalStart attaches the user to a field. Attaching the same field again
// does nothing. Fields of an uncomparable type are always taken as new.
func (a *Agent) ThermalStart(f ThermalField) {
	if isComparable(f) && isComparable(a.field) && a.field == f {
		return
	}
	a.field = f
	a.log.Debug("thermal simulation started")
}

// ThermalUpdate recomputes the surface area for the field resolution. The
// transferred heat is not kept.
func (a *Agent) ThermalUpdate(transferredHeat float64, f ThermalField) {
	a.surfaceArea = (skinSurfaceArea / bodyHeight) * f.ThermalPixelSize()
}

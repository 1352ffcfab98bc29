package userlogic

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestUserIsThermalObject(t *testing.T) {
	seat := vertex("seat", 3, 4, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{seat}, nil))
	a := newWalker(t, owner, Student, seat, seat, 1)

	assert.Equal(t, Temperature(32), a.ThermalTemperature())
	assert.Equal(t, 2.0, a.ThermalSurfaceArea())
	assert.Equal(t, Human, a.ThermalMaterial())
	assert.False(t, a.CanNotChangePosition())
	assert.Equal(t, orb.Point{1, 1}, a.Size())
	assert.Equal(t, orb.Point{3, 4}, a.Position())
}

func TestThermalUpdateScalesSurfaceArea(t *testing.T) {
	seat := vertex("seat", 0, 0, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{seat}, nil))
	a := newWalker(t, owner, Student, seat, seat, 1)

	a.ThermalUpdate(123, &fakeField{pixel: 0.9})
	assert.InDelta(t, 1.0, a.ThermalSurfaceArea(), 1e-9)

	a.ThermalUpdate(-5, &fakeField{pixel: 1.8})
	assert.InDelta(t, 2.0, a.ThermalSurfaceArea(), 1e-9)
}

func TestThermalStartKeepsField(t *testing.T) {
	seat := vertex("seat", 0, 0, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{seat}, nil))
	a := newWalker(t, owner, Student, seat, seat, 1)
	first := &fakeField{temp: temp(19), pixel: 1}

	a.ThermalStart(first)
	a.ThermalStart(first)
	assert.Same(t, first, a.field)

	second := &fakeField{temp: temp(25), pixel: 1}
	a.ThermalStart(second)
	assert.Same(t, second, a.field)
}

func TestThermalMaterialString(t *testing.T) {
	assert.Equal(t, "human", Human.String())
	assert.Equal(t, "ThermalMaterial(9)", ThermalMaterial(9).String())
}

// gridValue is a field passed by value with a slice inside.
type gridValue struct {
	cells []float64
}

func (g gridValue) Temperature(orb.Point) (Temperature, bool) { return Temperature(g.cells[0]), true }
func (g gridValue) ThermalPixelSize() float64                 { return 1 }

func TestThermalStartWithUncomparableField(t *testing.T) {
	seat := vertex("seat", 0, 0, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{seat}, nil))
	a := newWalker(t, owner, Student, seat, seat, 1)

	assert.NotPanics(t, func() {
		a.ThermalStart(gridValue{cells: []float64{19}})
		a.ThermalStart(gridValue{cells: []float64{23}})
	})
	got, ok := a.field.Temperature(orb.Point{})
	assert.True(t, ok)
	assert.Equal(t, Temperature(23), got)
}

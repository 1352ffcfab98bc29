package userlogic

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// ErrNotComparable is returned when an object can not be told apart from
// other objects, e.g. a struct value holding a slice. Use pointer types.
var ErrNotComparable = errors.New("thermal object is not comparable")

// heat transfer coefficients in W/(m²·K)
var transferCoefficients = map[ThermalMaterial]float64{
	Air:   0,
	Human: 8,
	Wall:  2,
	Glass: 5,
	Metal: 15,
}

// GridField is a coarse thermal field: a grid of cells over the room, each
// holding one temperature. Objects exchange heat with the cell they are in.
// It is safe for concurrent use.
type GridField struct {
	bound    orb.Bound
	pixel    float64
	capacity float64
	cols     int
	rows     int

	mu       sync.RWMutex
	cells    []float64
	objects  []ThermalObject
	attached map[ThermalObject]bool
}

var _ ThermalField = (*GridField)(nil)

// NewGridField covers bound with square cells of opts.PixelSize.
func NewGridField(bound orb.Bound, opts FieldOptions) *GridField {
	pixel := opts.PixelSize
	if pixel <= 0 {
		pixel = DefaultFieldOptions().PixelSize
	}
	capacity := opts.HeatCapacity
	if capacity <= 0 {
		capacity = DefaultFieldOptions().HeatCapacity
	}

	cols := max(1, int(math.Ceil((bound.Right()-bound.Left())/pixel)))
	rows := max(1, int(math.Ceil((bound.Top()-bound.Bottom())/pixel)))

	f := &GridField{
		bound:    bound,
		pixel:    pixel,
		capacity: capacity,
		cols:     cols,
		rows:     rows,
		cells:    make([]float64, cols*rows),
		attached: make(map[ThermalObject]bool),
	}
	f.Fill(Temperature(opts.InitialTemperature))
	return f
}

// ThermalPixelSize is the edge length of one cell in m.
func (f *GridField) ThermalPixelSize() float64 { return f.pixel }

// Temperature of the cell containing p, false outside the field.
func (f *GridField) Temperature(p orb.Point) (Temperature, bool) {
	i, ok := f.index(p)
	if !ok {
		return 0, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Temperature(f.cells[i]), true
}

// SetTemperature overwrites the cell containing p.
func (f *GridField) SetTemperature(p orb.Point, t Temperature) bool {
	i, ok := f.index(p)
	if !ok {
		return false
	}
	f.mu.Lock()
	f.cells[i] = float64(t)
	f.mu.Unlock()
	return true
}

// Fill sets every cell to t.
func (f *GridField) Fill(t Temperature) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cells {
		f.cells[i] = float64(t)
	}
}

// Mean is the average cell temperature.
func (f *GridField) Mean() Temperature {
	f.mu.RLock()
	defer f.mu.RUnlock()
	sum := 0.0
	for _, c := range f.cells {
		sum += c
	}
	return Temperature(sum / float64(len(f.cells)))
}

// Attach takes obj into the simulation and calls its ThermalStart. Objects
// that are attached already are ignored. obj must be comparable, which
// pointer types always are.
func (f *GridField) Attach(obj ThermalObject) error {
	if !isComparable(obj) {
		return fmt.Errorf("attach %T: %w", obj, ErrNotComparable)
	}

	f.mu.Lock()
	if f.attached[obj] {
		f.mu.Unlock()
		return nil
	}
	f.attached[obj] = true
	f.objects = append(f.objects, obj)
	f.mu.Unlock()

	obj.ThermalStart(f)
	return nil
}

// Detach removes obj from the simulation.
func (f *GridField) Detach(obj ThermalObject) {
	if !isComparable(obj) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.attached[obj] {
		return
	}
	delete(f.attached, obj)
	for i, o := range f.objects {
		if o == obj {
			f.objects = append(f.objects[:i], f.objects[i+1:]...)
			break
		}
	}
}

// Attached is the number of objects in the simulation.
func (f *GridField) Attached() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.objects)
}

// Step exchanges heat between every attached object and its cell for dt
// and reports the heat each object received.
func (f *GridField) Step(dt time.Duration) {
	type update struct {
		obj  ThermalObject
		heat float64
	}

	seconds := dt.Seconds()
	f.mu.Lock()
	updates := make([]update, 0, len(f.objects))
	for _, obj := range f.objects {
		i, ok := f.index(obj.Position())
		if !ok {
			updates = append(updates, update{obj: obj})
			continue
		}
		delta := float64(obj.ThermalTemperature()) - f.cells[i]
		// heat flowing from the object into the cell
		q := transferCoefficients[obj.ThermalMaterial()] * obj.ThermalSurfaceArea() * delta * seconds
		f.cells[i] += q / f.capacity
		updates = append(updates, update{obj: obj, heat: -q})
	}
	f.mu.Unlock()

	for _, u := range updates {
		u.obj.ThermalUpdate(u.heat, f)
	}
}

func (f *GridField) index(p orb.Point) (int, bool) {
	if !f.bound.Contains(p) {
		return 0, false
	}
	col := min(f.cols-1, int((p.X()-f.bound.Left())/f.pixel))
	row := min(f.rows-1, int((p.Y()-f.bound.Bottom())/f.pixel))
	return row*f.cols + col, true
}

// isComparable reports whether v can be used as a map key or with == without
// panicking.
func isComparable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}

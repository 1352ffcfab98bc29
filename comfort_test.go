package userlogic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeelTemperature(t *testing.T) {
	tests := []struct {
		name   string
		sample *Temperature
		minOk  Temperature
		maxOk  Temperature
		want   Comfort
	}{
		{"no data", nil, 18, 24, Comfort{}},
		{"inside band", temp(21), 18, 24, Comfort{}},
		{"on lower edge", temp(18), 18, 24, Comfort{}},
		{"on upper edge", temp(24), 18, 24, Comfort{}},
		{"below band", temp(17.9), 18, 24, Comfort{Freezing: true}},
		{"above band", temp(24.1), 18, 24, Comfort{Sweating: true}},
		{"inverted band above", temp(23), 22, 20, Comfort{Sweating: true}},
		{"inverted band between", temp(21), 22, 20, Comfort{Sweating: true}},
		{"inverted band on max", temp(20), 22, 20, Comfort{Freezing: true}},
		{"inverted band below", temp(19), 22, 20, Comfort{Freezing: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FeelTemperature(tt.sample, tt.minOk, tt.maxOk))
		})
	}
}

func TestFeelTemperatureNeverBoth(t *testing.T) {
	for minOk := Temperature(15); minOk <= 27; minOk++ {
		for maxOk := Temperature(15); maxOk <= 27; maxOk++ {
			for s := 10.0; s <= 32; s += 0.5 {
				c := FeelTemperature(temp(s), minOk, maxOk)
				assert.False(t, c.Freezing && c.Sweating, "sample %v band [%v, %v]", s, minOk, maxOk)
			}
		}
	}
}

func TestComfortBand(t *testing.T) {
	seat := vertex("seat", 0, 0, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{seat}, nil))
	a := newWalker(t, owner, Student, seat, seat, 1)

	a.setFactors(0, 0, 0)
	assert.Equal(t, Temperature(17), a.MinOkTemperature())
	assert.Equal(t, Temperature(20), a.MaxOkTemperature())

	a.setFactors(0, 1, 1)
	assert.Equal(t, Temperature(22), a.MinOkTemperature())
	assert.Equal(t, Temperature(26), a.MaxOkTemperature())

	a.setFactors(0, 0.5, 0.5)
	assert.InDelta(t, 19.5, float64(a.MinOkTemperature()), 1e-9)
	assert.InDelta(t, 23, float64(a.MaxOkTemperature()), 1e-9)

	// out of range factors are clamped
	a.setFactors(-1, 2, -3)
	_, lo, hi := a.Factors()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 0.0, hi)
}

func TestComfortFollowsField(t *testing.T) {
	start := vertex("start", 0, 0, Waypoint)
	seat := vertex("seat", 9, 9, Seat)
	owner := newFakeOwner(newFakeGraph([]*Vertex{start}, nil))
	a := newWalker(t, owner, Student, seat, start, 1)
	a.setFactors(0, 0, 1)
	field := &fakeField{temp: temp(10), pixel: 1}
	a.ThermalStart(field)
	a.state = Idle

	is := assert.New(t)
	is.NoError(a.Update(Lecture, 0))
	is.True(a.IsFreezing())
	is.False(a.IsSweating())
	is.Equal(temp(10), a.LastTemperature())

	field.temp = temp(30)
	is.NoError(a.Update(Lecture, 0))
	is.False(a.IsFreezing())
	is.True(a.IsSweating())

	field.temp = nil
	is.NoError(a.Update(Lecture, 0))
	is.False(a.IsFreezing())
	is.False(a.IsSweating())
	is.Nil(a.LastTemperature())
}

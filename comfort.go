package userlogic

// Comfort is how a user feels about the temperature around them. Freezing
// and Sweating are never both set.
type Comfort struct {
	Freezing bool
	Sweating bool
}

// FeelTemperature derives the comfort flags from a sample and a comfort band.
// A nil sample is neutral. The band is not required to be ordered: with
// minOk > maxOk every sample above maxOk sweats and every other sample
// freezes.
func FeelTemperature(sample *Temperature, minOk, maxOk Temperature) Comfort {
	if sample == nil {
		return Comfort{}
	}
	switch t := *sample; {
	case t > maxOk:
		return Comfort{Sweating: true}
	case t < minOk:
		return Comfort{Freezing: true}
	}
	return Comfort{}
}

// MinOkTemperature is the lowest temperature the user is fine with. Below
// it the user freezes.
func (a *Agent) MinOkTemperature() Temperature {
	return Temperature(lerp(a.opts.LowerMinOkTemperature, a.opts.UpperMinOkTemperature, a.minComfortFactor))
}

// MaxOkTemperature is the highest temperature the user is fine with. Above
// it the user sweats.
func (a *Agent) MaxOkTemperature() Temperature {
	return Temperature(lerp(a.opts.LowerMaxOkTemperature, a.opts.UpperMaxOkTemperature, a.maxComfortFactor))
}

// IsFreezing reports whether the last sample was below the comfort band.
func (a *Agent) IsFreezing() bool { return a.comfort.Freezing }

// IsSweating reports whether the last sample was above the comfort band.
func (a *Agent) IsSweating() bool { return a.comfort.Sweating }

// LastTemperature is the sample used for the current comfort flags, nil if
// the field had no data.
func (a *Agent) LastTemperature() *Temperature { return a.temperature }

func (a *Agent) updateTemperatureFeeling(sample *Temperature) {
	a.temperature = sample
	a.comfort = FeelTemperature(sample, a.MinOkTemperature(), a.MaxOkTemperature())
}

func (a *Agent) sampleTemperature() *Temperature {
	if a.field == nil {
		return nil
	}
	t, ok := a.field.Temperature(a.position)
	if !ok {
		return nil
	}
	return &t
}

package goobd

// UnitSystem selects the measurement system applied at the decode boundary.
type UnitSystem int

const (
	UnitMetric UnitSystem = iota
	UnitImperial
)

type Unit int

const (
	UnitNone Unit = iota
	UnitPercent
	UnitCelsius
	UnitFahrenheit
	UnitKelvin
	UnitKpa
	UnitPa
	UnitPsi
	UnitRPM
	UnitKmh
	UnitMph
	UnitGramsPerSec
	UnitVolt
	UnitMilliAmp
	UnitDegree
	UnitSecond
	UnitMinute
	UnitKilometer
	UnitMile
	UnitLiterPerHour
	UnitRatio
	UnitCount
)

func (u Unit) String() string {
	switch u {
	case UnitPercent:
		return "%"
	case UnitCelsius:
		return "°C"
	case UnitFahrenheit:
		return "°F"
	case UnitKelvin:
		return "K"
	case UnitKpa:
		return "kPa"
	case UnitPa:
		return "Pa"
	case UnitPsi:
		return "psi"
	case UnitRPM:
		return "rpm"
	case UnitKmh:
		return "km/h"
	case UnitMph:
		return "mph"
	case UnitGramsPerSec:
		return "g/s"
	case UnitVolt:
		return "V"
	case UnitMilliAmp:
		return "mA"
	case UnitDegree:
		return "°"
	case UnitSecond:
		return "s"
	case UnitMinute:
		return "min"
	case UnitKilometer:
		return "km"
	case UnitMile:
		return "mi"
	case UnitLiterPerHour:
		return "L/h"
	case UnitRatio:
		return "ratio"
	case UnitCount:
		return "count"
	default:
		return ""
	}
}

// Measurement is a decoded sensor value with its physical unit.
type Measurement struct {
	Value float64
	Unit  Unit
}

// Convert translates a metric measurement into the imperial equivalent
// where one exists. Measurements without an imperial counterpart pass
// through unchanged.
func (m Measurement) Convert(system UnitSystem) Measurement {
	if system != UnitImperial {
		return m
	}
	switch m.Unit {
	case UnitCelsius:
		return Measurement{Value: m.Value*9/5 + 32, Unit: UnitFahrenheit}
	case UnitKmh:
		return Measurement{Value: m.Value * 0.621371, Unit: UnitMph}
	case UnitKilometer:
		return Measurement{Value: m.Value * 0.621371, Unit: UnitMile}
	case UnitKpa:
		return Measurement{Value: m.Value * 0.145038, Unit: UnitPsi}
	default:
		return m
	}
}

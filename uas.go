package goobd

import "fmt"

// uasEntry is one SAE J1979 "Unit and Scaling" table row. The raw
// 16 bit value maps to scale*raw + offset in the given unit. Entries
// 0x80 and up interpret the raw value as signed.
type uasEntry struct {
	Scale  float64
	Offset float64
	Unit   Unit
	Signed bool
}

var uasTable = map[byte]uasEntry{
	0x01: {Scale: 1, Unit: UnitCount},
	0x02: {Scale: 0.1, Unit: UnitCount},
	0x03: {Scale: 0.01, Unit: UnitCount},
	0x04: {Scale: 0.001, Unit: UnitCount},
	0x05: {Scale: 0.0000305, Unit: UnitCount},
	0x06: {Scale: 0.000305, Unit: UnitCount},
	0x07: {Scale: 0.25, Unit: UnitRPM},
	0x08: {Scale: 0.01, Unit: UnitKmh},
	0x09: {Scale: 1, Unit: UnitKmh},
	0x0A: {Scale: 0.000122, Unit: UnitVolt},
	0x0B: {Scale: 0.001, Unit: UnitVolt},
	0x0C: {Scale: 0.01, Unit: UnitMilliAmp},
	0x0D: {Scale: 0.004, Unit: UnitMilliAmp},
	0x10: {Scale: 1, Unit: UnitSecond},
	0x11: {Scale: 100, Unit: UnitSecond},
	0x12: {Scale: 1, Unit: UnitSecond},
	0x16: {Scale: 0.1, Offset: -40, Unit: UnitCelsius},
	0x17: {Scale: 0.01, Unit: UnitKpa},
	0x18: {Scale: 0.0117, Unit: UnitKpa},
	0x19: {Scale: 0.079, Unit: UnitKpa},
	0x1A: {Scale: 1, Unit: UnitKpa},
	0x1B: {Scale: 10, Unit: UnitKpa},
	0x1C: {Scale: 0.01, Unit: UnitDegree},
	0x1D: {Scale: 0.5, Unit: UnitDegree},
	0x24: {Scale: 1, Unit: UnitCount},
	0x2F: {Scale: 0.01, Unit: UnitPercent},
	0x30: {Scale: 0.001526, Unit: UnitPercent},
	0x31: {Scale: 0.001, Unit: UnitLiterPerHour},
	0x81: {Scale: 1, Unit: UnitCount, Signed: true},
	0x82: {Scale: 0.1, Unit: UnitCount, Signed: true},
	0x83: {Scale: 0.01, Unit: UnitCount, Signed: true},
	0x84: {Scale: 0.001, Unit: UnitCount, Signed: true},
	0x8A: {Scale: 0.001, Unit: UnitVolt, Signed: true},
	0x8B: {Scale: 0.01, Unit: UnitMilliAmp, Signed: true},
	0x90: {Scale: 0.004, Unit: UnitKpa, Signed: true},
	0x96: {Scale: 0.1, Unit: UnitCelsius, Signed: true},
	0xFE: {Scale: 0.25, Offset: -128, Unit: UnitPa, Signed: true},
}

// decodeUAS applies a unit-and-scaling entry to a raw 16 bit value.
func decodeUAS(id byte, raw uint16) (Measurement, error) {
	entry, ok := uasTable[id]
	if !ok {
		return Measurement{}, fmt.Errorf("no unit and scaling entry %02X", id)
	}
	value := float64(raw)
	if entry.Signed {
		value = float64(int16(raw))
	}
	return Measurement{Value: entry.Scale*value + entry.Offset, Unit: entry.Unit}, nil
}

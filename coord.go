package osmpbf

// DefaultGranularity and the (historically buggy) default offsets are the
// values a PrimitiveBlock falls back to when its own granularity/offset
// fields are unset (proto2 "has" semantics, not zero values).
const DefaultGranularity = 100

// DefaultLatOffset and DefaultLonOffset are both zero. Some encoders in
// the wild default lonOffset to 1 and latOffset to 0, an asymmetry with
// no basis in the wire format. Both default to 0 here.
const (
	DefaultLatOffset int64 = 0
	DefaultLonOffset int64 = 0
)

// coordScale holds the granularity/offset triple a PrimitiveBlock carries;
// every raw stored coordinate in that block is interpreted through it.
type coordScale struct {
	granularity int64
	latOffset   int64
	lonOffset   int64
}

// toNanoLat converts a raw stored latitude unit to WGS84 nanodegrees.
func (c coordScale) toNanoLat(raw int64) int64 {
	return c.latOffset + c.granularity*raw
}

// toNanoLon converts a raw stored longitude unit to WGS84 nanodegrees.
func (c coordScale) toNanoLon(raw int64) int64 {
	return c.lonOffset + c.granularity*raw
}

// toDegLat converts a raw stored latitude unit to WGS84 degrees.
func (c coordScale) toDegLat(raw int64) float64 {
	return float64(c.toNanoLat(raw)) * 1e-9
}

// toDegLon converts a raw stored longitude unit to WGS84 degrees.
func (c coordScale) toDegLon(raw int64) float64 {
	return float64(c.toNanoLon(raw)) * 1e-9
}

// fromNanoLat converts WGS84 nanodegrees back to this block's raw storage
// unit, used by the encoder on flush.
func (c coordScale) fromNanoLat(nano int64) int64 {
	return (nano - c.latOffset) / c.granularity
}

func (c coordScale) fromNanoLon(nano int64) int64 {
	return (nano - c.lonOffset) / c.granularity
}

package osmpbf

import "testing"

func TestCoordScaleRoundTrip(t *testing.T) {
	scale := coordScale{granularity: DefaultGranularity, latOffset: 0, lonOffset: 0}

	nano := int64(520000000)
	raw := scale.fromNanoLat(nano)
	if got := scale.toNanoLat(raw); got != nano {
		t.Errorf("toNanoLat(fromNanoLat(%d)) = %d, want %d", nano, got, nano)
	}
}

func TestCoordScaleDegrees(t *testing.T) {
	scale := coordScale{granularity: 100, latOffset: 0, lonOffset: 0}
	raw := int64(5200000)
	if got, want := scale.toDegLat(raw), 0.52; got != want {
		t.Errorf("toDegLat(%d) = %v, want %v", raw, got, want)
	}
}

func TestCoordScaleOffsets(t *testing.T) {
	// The historical asymmetric default (lonOffset=1, latOffset=0) is
	// rejected in favor of a symmetric zero default; see coord.go.
	if DefaultLatOffset != 0 || DefaultLonOffset != 0 {
		t.Fatalf("expected both default offsets to be 0, got lat=%d lon=%d", DefaultLatOffset, DefaultLonOffset)
	}

	scale := coordScale{granularity: 100, latOffset: 1000, lonOffset: -1000}
	raw := int64(42)
	nano := scale.toNanoLon(raw)
	if got := scale.fromNanoLon(nano); got != raw {
		t.Errorf("fromNanoLon(toNanoLon(%d)) = %d, want %d", raw, got, raw)
	}
}

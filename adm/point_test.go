package adm

import (
	"math"
	"testing"

	"github.com/spatialkit/admrender/internal/geom"
)

func TestFindSector(t *testing.T) {
	tests := []struct {
		az            float64
		wantL, wantR  float64
	}{
		{15, 30, 0},
		{0, 30, 0},
		{-15, 0, -30},
		{-70, -30, -110},
		{180, -110, 110},
		{-150, -110, 110},
		{70, 110, 30},
		{390, 30, 0}, // wraps before lookup
	}
	for _, tt := range tests {
		sec, ok := FindSector(tt.az)
		if !ok {
			t.Fatalf("FindSector(%v) found no sector", tt.az)
		}
		if sec.AzLeft != tt.wantL || sec.AzRight != tt.wantR {
			t.Errorf("FindSector(%v) = [%v, %v], want [%v, %v]",
				tt.az, sec.AzLeft, sec.AzRight, tt.wantL, tt.wantR)
		}
	}
}

func TestFindCartSector(t *testing.T) {
	tests := []struct {
		az           float64
		wantL, wantR float64
	}{
		{20, 30, 0},
		{44, 30, 0},
		{46, 110, 30},
		{-46, -30, -110},
		{150, -110, 110},
	}
	for _, tt := range tests {
		sec, ok := FindCartSector(tt.az)
		if !ok {
			t.Fatalf("FindCartSector(%v) found no sector", tt.az)
		}
		if sec.AzLeft != tt.wantL || sec.AzRight != tt.wantR {
			t.Errorf("FindCartSector(%v) = [%v, %v], want [%v, %v]",
				tt.az, sec.AzLeft, sec.AzRight, tt.wantL, tt.wantR)
		}
	}
}

func TestMapAzToLinearEndpoints(t *testing.T) {
	const azL, azR = 30.0, 0.0
	if got := MapAzToLinear(azL, azR, azL); math.Abs(got) > 1e-12 {
		t.Errorf("left endpoint maps to %v, want 0", got)
	}
	if got := MapAzToLinear(azL, azR, azR); math.Abs(got-1) > 1e-12 {
		t.Errorf("right endpoint maps to %v, want 1", got)
	}
}

func TestMapAzLinearRoundTrip(t *testing.T) {
	const azL, azR = 110.0, 30.0
	for az := azR; az <= azL; az += 7.5 {
		x := MapAzToLinear(azL, azR, az)
		if x < 0 || x > 1 {
			t.Fatalf("MapAzToLinear(%v) = %v, outside [0,1]", az, x)
		}
		back := MapLinearToAz(azL, azR, x)
		if math.Abs(back-az) > 1e-9 {
			t.Fatalf("round trip %v -> %v -> %v", az, x, back)
		}
	}
}

func TestPointPolarToCartKnownPositions(t *testing.T) {
	tests := []struct {
		name       string
		az, el, d  float64
		want       CartesianPosition
	}{
		{"front centre", 0, 0, 1, CartesianPosition{0, 1, 0}},
		{"front left corner", 30, 0, 1, CartesianPosition{-1, 1, 0}},
		{"front right corner", -30, 0, 1, CartesianPosition{1, 1, 0}},
		{"rear left corner", 110, 0, 1, CartesianPosition{-1, -1, 0}},
		{"rear right corner", -110, 0, 1, CartesianPosition{1, -1, 0}},
		{"rear centre", 180, 0, 1, CartesianPosition{0, -1, 0}},
		{"top breakpoint", 0, 30, 1, CartesianPosition{0, 1, 1}},
		{"zenith", 0, 90, 1, CartesianPosition{0, 0, 1}},
		{"nadir", 0, -90, 1, CartesianPosition{0, 0, -1}},
		{"origin", 0, 0, 0, CartesianPosition{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointPolarToCart(PolarPosition{tt.az, tt.el, tt.d})
			if math.Abs(got.X-tt.want.X) > 1e-9 ||
				math.Abs(got.Y-tt.want.Y) > 1e-9 ||
				math.Abs(got.Z-tt.want.Z) > 1e-9 {
				t.Errorf("PointPolarToCart(%v, %v, %v) = %+v, want %+v",
					tt.az, tt.el, tt.d, got, tt.want)
			}
		})
	}
}

func TestPointCartToPolarVerticalAxis(t *testing.T) {
	up := PointCartToPolar(CartesianPosition{0, 0, 0.5})
	if up.Azimuth != 0 || up.Elevation != 90 || math.Abs(up.Distance-0.5) > 1e-12 {
		t.Errorf("above = %+v, want {0 90 0.5}", up)
	}
	down := PointCartToPolar(CartesianPosition{0, 0, -2})
	if down.Azimuth != 0 || down.Elevation != -90 || math.Abs(down.Distance-2) > 1e-12 {
		t.Errorf("below = %+v, want {0 -90 2}", down)
	}
	origin := PointCartToPolar(CartesianPosition{})
	if origin != (PolarPosition{}) {
		t.Errorf("origin = %+v, want zero", origin)
	}
}

func TestPointRoundTrip(t *testing.T) {
	for az := -170.0; az <= 170; az += 20 {
		for el := -80.0; el <= 80; el += 20 {
			for _, d := range []float64{0.5, 1, 2} {
				in := PolarPosition{Azimuth: az, Elevation: el, Distance: d}
				got := PointCartToPolar(PointPolarToCart(in))
				dAz := math.Abs(geom.WrapAngle(got.Azimuth - az))
				if dAz > 1e-6 || math.Abs(got.Elevation-el) > 1e-6 || math.Abs(got.Distance-d) > 1e-6 {
					t.Fatalf("round trip %+v = %+v", in, got)
				}
			}
		}
	}
}

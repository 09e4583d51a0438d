package matching

import (
	"testing"

	"github.com/buswatch/buswatch/pkg/transit"
)

func TestGetFilterForRouteB44SBS(t *testing.T) {
	stopFilter := GetFilterForRoute("MTA NYCT_B44+")

	sbsStop := transit.BusStop{ID: "MTA_303921", Direction: "SBS NOSTRAND AV towards SHEEPSHEAD BAY"}
	localStop := transit.BusStop{ID: "MTA_303922", Direction: "NOSTRAND AV towards SHEEPSHEAD BAY"}

	if !stopFilter(sbsStop) {
		t.Error("B44+ filter should accept SBS stops")
	}
	if stopFilter(localStop) {
		t.Error("B44+ filter should reject non-SBS stops")
	}
}

func TestGetFilterForRouteB48(t *testing.T) {
	stopFilter := GetFilterForRoute("MTA NYCT_B48")

	cases := []struct {
		direction string
		eligible  bool
	}{
		{"LEFFERTS GARDENS ROGERS AV", true},
		{"GREENPOINT BOX ST", true},
		{"WILLIAMSBURG BRIDGE PLAZA", false},
	}

	for _, testCase := range cases {
		stop := transit.BusStop{Direction: testCase.direction}

		if stopFilter(stop) != testCase.eligible {
			t.Errorf("direction %q: expected eligible=%v", testCase.direction, testCase.eligible)
		}
	}
}

func TestGetFilterForRouteIdentity(t *testing.T) {
	stopFilter := GetFilterForRoute("MTA NYCT_B52")

	if !stopFilter(transit.BusStop{Direction: "anything at all"}) {
		t.Error("unlisted routes should get the identity filter")
	}
	if !stopFilter(transit.BusStop{}) {
		t.Error("identity filter should pass stops with no direction")
	}
}

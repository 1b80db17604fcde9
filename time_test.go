package lockbox

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestUnixTimeUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  bool
		wantTime UnixTime
	}{
		"zero UNIX time": {
			raw:      `0`,
			wantTime: 0,
		},
		"full time format": {
			raw:      `"2018-07-25T08:42:08.819Z"`,
			wantTime: 1532508128,
		},
		"number": {
			raw:      `1532508128`,
			wantTime: 1532508128,
		},
		"negative number": {
			raw:     `-1`,
			wantErr: true,
		},
		"invalid string": {
			raw:     `"not a time"`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot unmarshal: %s", err)
			}
			if got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := UnixTime(1234567890)

	if got := now.Add(time.Hour); got != now+3600 {
		t.Fatalf("unexpected time: %d", got)
	}
	if got := now.Add(-time.Hour); got != now-3600 {
		t.Fatalf("unexpected time: %d", got)
	}

	// sub-second values are dropped
	if got := now.Add(999 * time.Millisecond); got != now {
		t.Fatalf("unexpected time: %d", got)
	}

	// overflow must saturate, not wrap
	almost := UnixTime(math.MaxInt64 - 1)
	if got := almost.Add(time.Hour); got != math.MaxInt64 {
		t.Fatalf("addition did not saturate: %d", got)
	}
}

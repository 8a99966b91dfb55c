package idle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIoregIdle(t *testing.T) {
	output := `    | |   "HIDParameters" = {"stuff"=1}
    | |   "HIDIdleTime" = 4523000000
    | |   "Other" = 2`

	seconds, err := parseIoregIdle(output)
	require.NoError(t, err)
	assert.InDelta(t, 4.523, seconds, 0.001)
}

func TestParseIoregIdleMissing(t *testing.T) {
	_, err := parseIoregIdle(`no relevant keys here`)
	assert.Error(t, err)
}

func TestParseIoregIdleMalformed(t *testing.T) {
	_, err := parseIoregIdle(`"HIDIdleTime" = not-a-number`)
	assert.Error(t, err)
}

func TestParseXprintidle(t *testing.T) {
	seconds, err := parseXprintidle("312500\n")
	require.NoError(t, err)
	assert.InDelta(t, 312.5, seconds, 0.001)
}

func TestParseXprintidleMalformed(t *testing.T) {
	_, err := parseXprintidle("oops")
	assert.Error(t, err)
}

func TestUnsupportedOS(t *testing.T) {
	d := &Detector{goos: "plan9"}
	_, err := d.Seconds(t.Context())
	assert.Error(t, err)
}

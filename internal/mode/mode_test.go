package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		Status:          "status",
		Log:             "log",
		RevisionDetails: "revision details",
		Branches:        "branches",
		Tags:            "tags",
		Kind(99):        "?",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
}

func TestAvailableHeight(t *testing.T) {
	assert.Equal(t, 0, AvailableHeight(0))
	assert.Equal(t, 0, AvailableHeight(ReservedLines))
	assert.Equal(t, 0, AvailableHeight(ReservedLines-1))
	assert.Equal(t, 1, AvailableHeight(ReservedLines+1))
	assert.Equal(t, 27, AvailableHeight(30))
}

//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapping_Matched(t *testing.T) {
	assert.True(t, Mapping{FileID: "img1"}.Matched())
	assert.False(t, Mapping{Step: "Click Save"}.Matched())
}

func TestReport_MappingRate(t *testing.T) {
	assert.Equal(t, 0.0, (&Report{}).MappingRate())
	assert.InDelta(t, 75.0, (&Report{TotalSteps: 4, MappedSteps: 3}).MappingRate(), 1e-9)
	assert.InDelta(t, 100.0, (&Report{TotalSteps: 2, MappedSteps: 2}).MappingRate(), 1e-9)
}

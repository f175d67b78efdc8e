package validation

import (
	"math"
	"testing"

	Error "flashauction/packages/common/errors"

	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	assert.Nil(t, UUID("0b3b6f5e-6a9b-4d8e-9d5e-000000000001"))
	assert.Equal(t, Error.NoValue, UUID("   "))
	assert.Equal(t, Error.InvalidValue, UUID("auction-1"))
}

func TestPositiveAmount(t *testing.T) {
	assert.Nil(t, PositiveAmount(0.5))
	assert.Equal(t, Error.NoValue, PositiveAmount(0))
	assert.Equal(t, Error.InvalidValue, PositiveAmount(-10))
	assert.Equal(t, Error.InvalidValue, PositiveAmount(math.NaN()))
	assert.Equal(t, Error.InvalidValue, PositiveAmount(math.Inf(1)))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	assert.Equal(t, 3.14, RoundDecimal(3.14159, 2))
	assert.Equal(t, 0.075991, RoundDecimal(0.0759909, 6))
	assert.Equal(t, 1.0, RoundDecimal(0.99999999, 6))
	assert.Equal(t, 2.5, RoundDecimal(2.5, -1))
}

func TestSplitNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitNonEmpty(" a, ,b ,", ","))
	assert.Nil(t, SplitNonEmpty("", ","))
	assert.Nil(t, SplitNonEmpty(" , ", ","))
}

package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "100.0000", Price(1000000))
	assert.Equal(t, "10.0050", Price(100050))
	assert.Equal(t, "0.0001", Price(1))
	assert.Equal(t, "0.0000", Price(0))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "512 ns", Duration(512))
	assert.Equal(t, "1.500 µs", Duration(1500))
	assert.Equal(t, "2.000 ms", Duration(2_000_000))
	assert.Equal(t, "1.250 s", Duration(1_250_000_000))
}

package util

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGwei(t *testing.T) {
	assert.Equal(t, "auto", FormatGwei(nil))
	assert.Equal(t, "150 gwei", FormatGwei(big.NewInt(150000000000)))
	assert.Equal(t, "82 gwei", FormatGwei(big.NewInt(82000000000)))
	assert.Equal(t, "1.5 gwei", FormatGwei(big.NewInt(1500000000)))
	assert.Equal(t, "0.000000001 gwei", FormatGwei(big.NewInt(1)))
	assert.Equal(t, "-0.5 gwei", FormatGwei(big.NewInt(-500000000)))
	assert.Equal(t, "-2 gwei", FormatGwei(big.NewInt(-2000000000)))
	assert.Equal(t, "-1.25 gwei", FormatGwei(big.NewInt(-1250000000)))
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "0", FormatWei(nil))
	assert.Equal(t, "0", FormatWei(big.NewInt(0)))
	assert.Equal(t, "82000000000", FormatWei(big.NewInt(82000000000)))
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$550,000", formatMoney(fp(550000)))
	assert.Equal(t, "$1,234,568", formatMoney(fp(1234567.8)))
	assert.Equal(t, "—", formatMoney(nil))
}

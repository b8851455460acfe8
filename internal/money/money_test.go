package money_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/internal/money"
)

func TestFormatter(t *testing.T) {
	f, err := money.NewFormatter("USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", f.Code())

	got := f.Format(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasPrefix(got, "$"), got)
	assert.Contains(t, got, "1,234.50")

	neg := f.Format(decimal.RequireFromString("-3"))
	assert.True(t, strings.HasPrefix(neg, "-$"), neg)
	assert.Contains(t, neg, "3.00")

	assert.True(t, strings.HasPrefix(f.Signed(decimal.NewFromInt(1), true), "+$"))
	assert.True(t, strings.HasPrefix(f.Signed(decimal.NewFromInt(1), false), "-$"))
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := money.NewFormatter("XYZQ")
	assert.Error(t, err)
}

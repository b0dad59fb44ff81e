package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/oascms/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1000000", want: 100000000},
		{in: "1,000,000.50", want: 100000050},
		{in: " 12.345 ", want: 1235},
		{in: "0.01", want: 1},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1000000.00", money.Format(100000000))
	assert.Equal(t, "0.05", money.Format(5))
	assert.Equal(t, "-12.50", money.Format(-1250))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(10000000), money.Percent(100000000, 10))
	assert.Equal(t, int64(40000000), money.Percent(100000000, 40))
	// 10% of 0.99 truncates to 0.09.
	assert.Equal(t, int64(9), money.Percent(99, 10))
	assert.Equal(t, int64(0), money.Percent(0, 10))
}

package utils

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "plain", input: "1000", want: 1000},
		{name: "separators", input: "1_000_000", want: 1_000_000},
		{name: "padded", input: " 42 ", want: 42},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "garbage", input: "12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint64())
		})
	}
}

func TestUint256StringRoundTrip(t *testing.T) {
	assert.Equal(t, "0", Uint256ToString(nil))
	assert.Equal(t, "250", Uint256ToString(uint256.NewInt(250)))
	assert.True(t, Uint256FromString("").IsZero())
	assert.True(t, Uint256FromString("nope").IsZero())
	assert.Equal(t, uint64(750), Uint256FromString("750").Uint64())
}

func TestShortenLog(t *testing.T) {
	assert.Equal(t, "alice", ShortenLog("alice"))
	assert.Equal(t, "abcd...mnop", ShortenLog("abcdefghijklmnop"))
	assert.Equal(t, "12345678...stuvwxyz", ShortenLog("12345678abcdefghijklstuvwxyz"))
}

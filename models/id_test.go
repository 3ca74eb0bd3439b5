package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeID(t *testing.T) {
	tests := []struct {
		id   string
		want int64
	}{
		{"0", 0},
		{"z", 35},
		{"10", 36},
		{"c0b6xx", 726116325},
		{"2qh0u", 4594350},
	}

	for _, tt := range tests {
		got, err := DecodeID(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "id %q", tt.id)
	}
}

func TestDecodeIDRoundTrip(t *testing.T) {
	for _, id := range []string{"1", "abc123", "t3xyz", "zzzzzz"} {
		n, err := DecodeID(id)
		require.NoError(t, err)
		assert.Equal(t, id, EncodeID(n))
	}
}

func TestDecodeIDMalformed(t *testing.T) {
	for _, id := range []string{"", "abc!", "äöü"} {
		_, err := DecodeID(id)
		assert.Error(t, err, "id %q", id)
	}
}

func TestParseFullname(t *testing.T) {
	kind, id, err := ParseFullname("t1_c0b6xx")
	require.NoError(t, err)
	assert.Equal(t, KindComment, kind)
	assert.Equal(t, "c0b6xx", id)

	kind, id, err = ParseFullname("t3_1xyz")
	require.NoError(t, err)
	assert.Equal(t, KindPost, kind)
	assert.Equal(t, "1xyz", id)
}

func TestParseFullnameMalformed(t *testing.T) {
	for _, fullname := range []string{"", "t1", "_abc", "t1_"} {
		_, _, err := ParseFullname(fullname)
		assert.Error(t, err, "fullname %q", fullname)
	}
}

package compression

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCompressor(t *testing.T) {
	c, err := GetCompressor(None)
	require.NoError(t, err)
	assert.Equal(t, None, c.Algorithm())

	c, err = GetCompressor(Snappy)
	require.NoError(t, err)
	assert.Equal(t, Snappy, c.Algorithm())

	_, err = GetCompressor(Algorithm(42))
	assert.Error(t, err)
}

func TestFrame_RoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`"06:00:00",`, 500))

	for _, algo := range []Algorithm{None, Snappy} {
		t.Run(algo.String(), func(t *testing.T) {
			frame, err := Frame(algo, payload)
			require.NoError(t, err)
			assert.Equal(t, byte(algo), frame[0])

			out, err := Unframe(frame)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(payload, out))
		})
	}
}

func TestFrame_SnappyShrinksRepetitivePayload(t *testing.T) {
	payload := []byte(strings.Repeat("2023-07-12T06:00:00Z,", 1000))

	frame, err := Frame(Snappy, payload)
	require.NoError(t, err)
	assert.Less(t, len(frame), len(payload)/4)
}

func TestUnframe_Errors(t *testing.T) {
	_, err := Unframe(nil)
	assert.Error(t, err)

	_, err = Unframe([]byte{9, 1, 2, 3})
	assert.Error(t, err)

	_, err = Unframe([]byte{byte(Snappy), 0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestSnappyCompressor_EmptyData(t *testing.T) {
	c := NewSnappyCompressor()

	out, err := c.Compress(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = c.Decompress(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

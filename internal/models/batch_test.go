package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/cyclepeak/internal/compression"
)

func TestObservationBatch_EncodeDecode(t *testing.T) {
	in := &ObservationBatch{
		PassID: "feed-1",
		Kind:   "time_of_day",
		Values: []string{"06:00:00", "", "07:30:00.250000"},
		SentAt: "2024-03-01T12:00:00Z",
	}

	data, err := EncodeObservationBatch(in)
	require.NoError(t, err)
	assert.Equal(t, byte(compression.Snappy), data[0])

	out, err := DecodeObservationBatch(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeObservationBatch_RequiresFields(t *testing.T) {
	_, err := EncodeObservationBatch(&ObservationBatch{Kind: "month"})
	assert.Error(t, err)

	_, err = EncodeObservationBatch(&ObservationBatch{PassID: "p"})
	assert.Error(t, err)
}

func TestDecodeObservationBatch_Errors(t *testing.T) {
	_, err := DecodeObservationBatch(nil)
	assert.Error(t, err)

	frame, err := compression.Frame(compression.None, []byte("not json"))
	require.NoError(t, err)
	_, err = DecodeObservationBatch(frame)
	assert.Error(t, err)

	frame, err = compression.Frame(compression.None, []byte(`{"kind":"month"}`))
	require.NoError(t, err)
	_, err = DecodeObservationBatch(frame)
	assert.Error(t, err)
}

func TestPeakResponse_UndefinedMarshalsNulls(t *testing.T) {
	data, err := json.Marshal(PeakResponse{Kind: "month", Count: 2})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Nil(t, m["angle"])
	assert.Nil(t, m["peak"])
	assert.Equal(t, false, m["defined"])
	_, hasPassID := m["pass_id"]
	assert.False(t, hasPassID)
}

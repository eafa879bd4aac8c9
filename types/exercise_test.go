package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want Duration
	}{
		{raw: "30", want: Minutes(30)},
		{raw: "30min", want: Minutes(30)},
		{raw: " 7", want: Minutes(7)},
		{raw: "3.9", want: Minutes(3)},
		{raw: "-5", want: Minutes(-5)},
		{raw: "+12", want: Minutes(12)},
		{raw: "0x1A", want: Minutes(26)},
		{raw: "0", want: Minutes(0)},
		{raw: "abc", want: Duration{}},
		{raw: "", want: Duration{}},
		{raw: "-", want: Duration{}},
		{raw: "0x", want: Duration{}},
		{raw: "0xg", want: Duration{}},
		{raw: "-0x", want: Duration{}},
		{raw: "0X1f", want: Minutes(31)},
		{raw: "99999999999999999999999", want: Duration{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.raw))
		})
	}
}

func TestDurationInRange(t *testing.T) {
	assert.True(t, Minutes(MaxDurationMinutes).InRange())
	assert.True(t, Minutes(MinDurationMinutes).InRange())
	assert.True(t, Duration{}.InRange())
	assert.False(t, Minutes(MaxDurationMinutes+1).InRange())
	assert.False(t, Minutes(MinDurationMinutes-1).InRange())
	assert.False(t, ParseDuration("3000000000").InRange())
}

func TestDurationJSON(t *testing.T) {
	entry := LogEntry{Description: "run", Duration: Minutes(30), Date: "2024-01-05"}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"run","duration":30,"date":"2024-01-05"}`, string(data))

	entry.Duration = ParseDuration("abc")
	data, err = json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"run","duration":null,"date":"2024-01-05"}`, string(data))

	var decoded LogEntry
	require.NoError(t, json.Unmarshal([]byte(`{"duration":45}`), &decoded))
	assert.Equal(t, Minutes(45), decoded.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"duration":null}`), &decoded))
	assert.False(t, decoded.Duration.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"duration":"x"}`), &decoded))
}

func TestDurationSQL(t *testing.T) {
	value, err := Minutes(20).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(20), value)

	value, err = Duration{}.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var d Duration
	require.NoError(t, d.Scan(int64(15)))
	assert.Equal(t, Minutes(15), d)

	require.NoError(t, d.Scan([]byte("8")))
	assert.Equal(t, Minutes(8), d)

	require.NoError(t, d.Scan(nil))
	assert.Equal(t, Duration{}, d)

	assert.Error(t, d.Scan("ten"))
}

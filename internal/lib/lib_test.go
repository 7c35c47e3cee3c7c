package lib

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet("b", "a")
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Contains("b"))

	s.Remove("b")
	assert.False(t, s.Contains("b"))
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, []string{"a", "c"}, s.AsSlice())
}

func TestQueue(t *testing.T) {
	q := NewQueue[int]()
	_, ok := q.Dequeue()
	assert.False(t, ok)

	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)
	item, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 1, item)
	assert.Equal(t, 2, q.Size())

	assert.Equal(t, []int{2, 3}, q.Drain())
	assert.Equal(t, 0, q.Size())
}

func TestDurationJSON(t *testing.T) {
	var d struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "1.5s", "b": 2000}`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.A.Duration)
	assert.Equal(t, 2*time.Microsecond, d.B.Duration)

	out, err := json.Marshal(DurationFrom(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`true`), &d.A))
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Duration)
	assert.Error(t, d.UnmarshalText([]byte("later")))

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "250ms", string(text))
}

func TestParseSLogLevel(t *testing.T) {
	level, err := ParseSLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())

	_, err = ParseSLogLevel("chatty")
	assert.Error(t, err)
}

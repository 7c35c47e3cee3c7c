package phase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpider(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"0", ""},
		{"1", "π"},
		{"2", ""},
		{"3", "π"},
		{"-3", "π"},
		{"π", "π"},
		{"pi", "π"},
		{"3π", "π"},
		{"1/2", "π/2"},
		{"-1/4", "-π/4"},
		{"/2", "π/2"},
		{"-/2", "-π/2"},
		{"3/4", "3π/4"},
		{"-3/4", "-3π/4"},
		{"+3/4", "3π/4"},
		{"π/4", "π/4"},
		{"3π/4", "3π/4"},
		{"3/4π", "3π/4"},
		{" 1 / 2 ", "π/2"},
		{"2/4", "2π/4"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := Parse(tc.in, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestParseBox(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", ""},
		{"0", BoxPlaceholder},
		{"2", BoxPlaceholder},
		{"-1", ""},
		{"-3", ""},
		{"-2", BoxPlaceholder},
		{"π", ""},
		{"1/2", "π/2"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := Parse(tc.in, true)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		in       string
		reason   Reason
		sentinel error
	}{
		{"1.5", ReasonDecimal, ErrInvalidPhaseFormat},
		{"0.5/2", ReasonDecimal, ErrInvalidPhaseFormat},
		{"abc", ReasonNonNumeric, ErrInvalidPhaseFormat},
		{"-", ReasonNonNumeric, ErrInvalidPhaseFormat},
		{"-π", ReasonNonNumeric, ErrInvalidPhaseFormat},
		{"ππ", ReasonNonNumeric, ErrInvalidPhaseFormat},
		{"1/2/3", ReasonMalformedFraction, ErrMalformedFraction},
		{"1/", ReasonMalformedFraction, ErrMalformedFraction},
		{"1/x", ReasonMalformedFraction, ErrMalformedFraction},
		{"1/0", ReasonMalformedFraction, ErrMalformedFraction},
		{"π/2π", ReasonMalformedFraction, ErrMalformedFraction},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := Parse(tc.in, false)
			require.Error(t, err)
			assert.True(t, p.IsZero())

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.reason, perr.Reason)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Contains(t, err.Error(), tc.reason.String())
		})
	}
}

func TestLabelIsVerbatim(t *testing.T) {
	p := Label("a+π/2")
	assert.Equal(t, "a+π/2", p.String())
	assert.False(t, p.IsZero())
	assert.True(t, Zero.IsZero())
}

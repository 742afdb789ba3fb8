package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2025-10-03", time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC), true},
		{"2025/1/7", time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), true},
		{" 2025-12-01 ", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), true},
		// day-first ordering is not supported
		{"03/10/2025", time.Time{}, false},
		{"2025-02-30", time.Time{}, false},
		{"2025-13-01", time.Time{}, false},
		{"2025-00-10", time.Time{}, false},
		{"tomorrow", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"14:30", "14:30", true},
		{"2:30pm", "14:30", true},
		{"2:30 PM", "14:30", true},
		{"2.30pm", "14:30", true},
		{"12:00am", "00:00", true},
		{"12:00pm", "12:00", true},
		{"9:05", "09:05", true},
		{"0:00", "00:00", true},
		{"25:00", "", false},
		{"13:00pm", "", false},
		{"0:30am", "", false},
		{"14:60", "", false},
		{"half past two", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	for _, input := range []string{"y", "Yes", "YEAH", "yup", "true"} {
		got, ok := ParseYesNo(input)
		require.True(t, ok, input)
		require.True(t, got, input)
	}
	for _, input := range []string{"n", "No", "NOPE", "false"} {
		got, ok := ParseYesNo(input)
		require.True(t, ok, input)
		require.False(t, got, input)
	}
	for _, input := range []string{"", "maybe", "si", "yes please"} {
		_, ok := ParseYesNo(input)
		require.False(t, ok, input)
	}
}

func TestMatchChoice(t *testing.T) {
	choices := map[string]string{
		"air":   "Air",
		"train": "Train",
		"car":   "Car",
	}

	got, ok := MatchChoice("Air", choices)
	require.True(t, ok)
	require.Equal(t, "air", got)

	got, ok = MatchChoice("  train ", choices)
	require.True(t, ok)
	require.Equal(t, "train", got)

	_, ok = MatchChoice("boat", choices)
	require.False(t, ok)

	_, ok = MatchChoice("", choices)
	require.False(t, ok)
}

func TestOptionalText(t *testing.T) {
	require.Nil(t, OptionalText(""))
	require.Nil(t, OptionalText("   "))

	for _, input := range []string{"skip", "SKIP", "none", "na"} {
		got := OptionalText(input)
		require.NotNil(t, got, input)
		require.Equal(t, "", *got, input)
	}

	got := OptionalText("  Mumbai Airport ")
	require.NotNil(t, got)
	require.Equal(t, "Mumbai Airport", *got)
}

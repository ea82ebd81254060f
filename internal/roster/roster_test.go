package roster

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func TestDecodeKeepsOrder(t *testing.T) {
	input := `{
		"employees": {
			"Zed":   {"Sunday": "Evening", "Monday": "Morning"},
			"Alice": {"Wednesday": "Afternoon"},
			"Mia":   {}
		}
	}`

	employees, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, employees, 3)

	assert.Equal(t, "Zed", employees[0].Name)
	assert.Equal(t, "Alice", employees[1].Name)
	assert.Equal(t, "Mia", employees[2].Name)

	assert.Equal(t, []domain.Preference{
		{Day: domain.Sunday, Shift: domain.ShiftEvening},
		{Day: domain.Monday, Shift: domain.ShiftMorning},
	}, employees[0].Preferences)
	assert.Empty(t, employees[2].Preferences)
	assert.Equal(t, 0, employees[0].WorkingDays)
}

func TestDecodeCollapsesDuplicates(t *testing.T) {
	input := `{"employees": {
		"Bob": {"Monday": "Morning", "Tuesday": "Evening", "Monday": "Afternoon"},
		"Amy": {"Friday": "Morning"},
		"Bob": {"Sunday": "Morning"}
	}}`

	employees, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, employees, 2)

	assert.Equal(t, "Bob", employees[0].Name)
	assert.Equal(t, []domain.Preference{{Day: domain.Sunday, Shift: domain.ShiftMorning}}, employees[0].Preferences)
}

func TestDecodeDuplicateDayKeepsFirstPosition(t *testing.T) {
	input := `{"employees": {"Bob": {"Monday": "Morning", "Tuesday": "Evening", "Monday": "Afternoon"}}}`

	employees, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []domain.Preference{
		{Day: domain.Monday, Shift: domain.ShiftAfternoon},
		{Day: domain.Tuesday, Shift: domain.ShiftEvening},
	}, employees[0].Preferences)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "missing employees", input: `{"staff": {}}`, want: ErrMissingEmployees},
		{name: "not an object", input: `[]`, want: ErrInvalidFormat},
		{name: "truncated", input: `{"employees": {"Bob": {"Monday": `, want: ErrInvalidFormat},
		{name: "employees not an object", input: `{"employees": ["Bob"]}`, want: ErrInvalidFormat},
		{name: "shift not a string", input: `{"employees": {"Bob": {"Monday": 1}}}`, want: ErrInvalidFormat},
		{name: "empty", input: ``, want: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeIgnoresOtherFields(t *testing.T) {
	input := `{"version": 2, "meta": {"a": [1, 2]}, "employees": {"Bob": {"Monday": "Morning"}}}`

	employees, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, employees, 1)
}

func TestLoadFile(t *testing.T) {
	employees, err := LoadFile(filepath.Join("testdata", "employee_data.json"))
	require.NoError(t, err)
	require.Len(t, employees, 14)

	assert.Equal(t, "Alice", employees[0].Name)
	assert.Len(t, employees[0].Preferences, 3)

	_, err = LoadFile(filepath.Join("testdata", "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeThenDecode(t *testing.T) {
	employees, err := LoadFile(filepath.Join("testdata", "employee_data.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, employees))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, len(employees))
	for i := range employees {
		assert.Equal(t, employees[i].Name, decoded[i].Name)
		assert.Equal(t, employees[i].Preferences, decoded[i].Preferences)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))

	_, err := Decode(&buf)
	assert.NoError(t, err)
}

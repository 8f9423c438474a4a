package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

func record(row int, date, clock string) types.RawRecord {
	return types.RawRecord{
		RowIndex:         row,
		Date:             date,
		PrimaryName:      "Alice",
		GuestCount:       "1",
		Time:             clock,
		TransportDetails: "Flight AI202",
		Destination:      "Mumbai",
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(time.UTC)
	want := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		date  string
		clock string
		valid bool
	}{
		{"iso date and clock", "2024-06-01", "14:00", true},
		{"clock with seconds", "2024-06-01", "14:00:00", true},
		{"twelve hour clock", "2024-06-01", "2:00 PM", true},
		{"lowercase meridiem", "2024-06-01", "2:00 pm", true},
		{"us date", "6/1/2024", "14:00", true},
		{"spelled month", "June 1, 2024", "14:00", true},
		{"date cell with time part", "2024-06-01 00:00:00", "14:00", true},
		{"time cell with date part", "2024-06-01", "1899-12-30 14:00:00", true},
		{"surrounding whitespace", " 2024-06-01 ", " 14:00 ", true},
		{"empty date", "", "14:00", false},
		{"empty time", "2024-06-01", "", false},
		{"plain number time", "2024-06-01", "1400", false},
		{"garbage date", "soon", "14:00", false},
		{"garbage time", "2024-06-01", "after lunch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := v.Validate(record(1, tt.date, tt.clock))
			assert.Equal(t, tt.valid, out.Valid)
			if tt.valid {
				assert.True(t, want.Equal(out.Start), "got %s", out.Start)
				assert.Nil(t, out.Err())
				return
			}
			assert.Equal(t, types.ReasonInvalidDateOrTime, out.Reason)
			require.NotNil(t, out.Err())
			assert.ErrorIs(t, out.Err(), types.ErrInvalidRow)
		})
	}
}

func TestValidateUsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	out := NewValidator(loc).Validate(record(1, "2024-06-01", "14:00"))

	require.True(t, out.Valid)
	assert.Equal(t, loc, out.Start.Location())
	assert.Equal(t, time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC), out.Start.UTC())
}

func TestValidateAll(t *testing.T) {
	v := NewValidator(time.UTC)
	result := v.ValidateAll([]types.RawRecord{
		record(1, "2024-06-01", "14:00"),
		record(2, "", "14:00"),
		record(3, "2024-06-01", "15:30"),
		record(4, "2024-06-01", "1400"),
	})

	assert.False(t, result.IsValid())
	require.Len(t, result.Valid, 2)
	assert.Equal(t, 1, result.Valid[0].Record.RowIndex)
	assert.Equal(t, 3, result.Valid[1].Record.RowIndex)

	require.Len(t, result.Invalid, 2)
	assert.Equal(t, 2, result.Invalid[0].RowIndex)
	assert.Equal(t, 4, result.Invalid[1].RowIndex)
}

func TestValidateAllEmpty(t *testing.T) {
	result := NewValidator(nil).ValidateAll(nil)
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Valid)
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"2024-02-01", NewDate(2024, 2, 1), false},
		{" 2024-02-01 ", NewDate(2024, 2, 1), false},
		{"2024-02-01 00:00:00", NewDate(2024, 2, 1), false},
		{"2024-02-01T10:30:00Z", NewDate(2024, 2, 1), false},
		{"01/02/2024", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, 2, 28)

	assert.Equal(t, NewDate(2024, 2, 29), d.AddDays(1))
	assert.Equal(t, NewDate(2024, 3, 1), d.AddDays(2))
	assert.Equal(t, 2, d.DaysUntil(NewDate(2024, 3, 1)))
	assert.True(t, d.Before(NewDate(2024, 3, 1)))
	assert.True(t, NewDate(2025, 1, 1).After(d))
	assert.True(t, d.Equal(MustParseDate("2024-02-28")))
	assert.Equal(t, "28/02/2024", d.Format("02/01/2006"))
}

func TestDateOf_UsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	late := time.Date(2024, 2, 5, 23, 30, 0, 0, saoPaulo)

	assert.Equal(t, NewDate(2024, 2, 5), DateOf(late))
	assert.Equal(t, NewDate(2024, 2, 6), DateOf(late.UTC()))
}

func TestDate_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Start Date `json:"start"`
	}{NewDate(2024, 2, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-02-01"}`, string(payload))

	var decoded struct {
		Start Date `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-02-10"}`), &decoded))
	assert.Equal(t, NewDate(2024, 2, 10), decoded.Start)
}

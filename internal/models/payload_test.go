package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Number
		wantErr bool
	}{
		{name: "number", in: `79.5`, want: Num(79.5)},
		{name: "numeric string", in: `"79.5"`, want: Num(79.5)},
		{name: "comma decimal", in: `"79,5"`, want: Num(79.5)},
		{name: "empty string", in: `""`, want: Number{}},
		{name: "null", in: `null`, want: Number{}},
		{name: "zero is present", in: `0`, want: Num(0)},
		{name: "garbage", in: `"abc"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
		{name: "nan", in: `"NaN"`, wantErr: true},
		{name: "infinity", in: `"Infinity"`, wantErr: true},
		{name: "negative inf", in: `"-Inf"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Number
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNote_UnmarshalJSON(t *testing.T) {
	var p DailyParams
	require.NoError(t, json.Unmarshal([]byte(`{"cycle_day": 12, "edema": "none", "stool": null}`), &p))
	assert.Equal(t, Note("12"), p.CycleDay)
	assert.Equal(t, Note("none"), p.Edema)
	assert.Equal(t, Note(""), p.Stool)

	assert.Error(t, json.Unmarshal([]byte(`{"edema": {}}`), &p))
}

func TestDailyParams_RoundTrip(t *testing.T) {
	in := `{"morning_weight":79.5,"waist":"70","edema":"light"}`

	p, err := DecodeDailyParams(in)
	require.NoError(t, err)
	assert.Equal(t, Num(79.5), p.MorningWeight)
	assert.Equal(t, Num(70), p.Waist)
	assert.False(t, p.Hips.Valid)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"morning_weight":79.5,"waist":70,"edema":"light"}`, string(out))

	again, err := DecodeDailyParams(string(out))
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestDecodeMeals(t *testing.T) {
	meals, err := DecodeMeals(`[{"time":"08:00","food":"eggs","mass":100,"kcal":150}]`)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, Meal{Time: "08:00", Food: "eggs", Mass: Num(100), Kcal: Num(150)}, meals[0])

	empty, err := DecodeMeals("")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	null, err := DecodeMeals("null")
	require.NoError(t, err)
	assert.NotNil(t, null)

	_, err = DecodeMeals("{broken")
	assert.Error(t, err)
}

func TestNumber_Helpers(t *testing.T) {
	assert.Nil(t, Number{}.Ptr())
	assert.Equal(t, "", Number{}.String())

	n := Num(80)
	require.NotNil(t, n.Ptr())
	assert.Equal(t, 80.0, *n.Ptr())
	assert.Equal(t, "80", n.String())
	assert.Equal(t, "0.25", Num(0.25).String())
}

func TestParseDailyParams(t *testing.T) {
	p, unknown, err := ParseDailyParams([]byte(`{"morning_weight":"79,5","mood":"ok","Waist":70,"alpha":1}`))
	require.NoError(t, err)
	assert.Equal(t, DailyParams{MorningWeight: Num(79.5), Waist: Num(70)}, p)
	assert.Equal(t, []string{"alpha", "mood"}, unknown)

	for _, empty := range []string{``, `null`, ` `} {
		p, unknown, err := ParseDailyParams([]byte(empty))
		require.NoError(t, err)
		assert.Equal(t, DailyParams{}, p)
		assert.Empty(t, unknown)
	}

	_, _, err = ParseDailyParams([]byte(`{"hips":"NaN"}`))
	assert.Error(t, err)
	_, _, err = ParseDailyParams([]byte(`"text"`))
	assert.Error(t, err)
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Number is an optional numeric measurement. It decodes from a JSON number,
// a numeric string or null; an empty string decodes to an absent value.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a present Number holding v.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Ptr returns the value as a pointer, or nil when absent.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// String renders the value without trailing zeros, or "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if raw == "" {
			*n = Number{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %s", data)
	}
	*n = Num(v)
	return nil
}

// Note is free text that also accepts a bare JSON number, e.g. a cycle day.
type Note string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Note) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Note(s)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("invalid text value %s", data)
		}
		*t = Note(data)
	}
	return nil
}

// DailyParams is the per-day set of measurements. Every field is optional;
// absent fields are omitted when encoded.
type DailyParams struct {
	StageType         Note   `json:"stage_type,omitempty"`
	ProgramDay        Number `json:"program_day,omitzero"`
	MorningWeight     Number `json:"morning_weight,omitzero"`
	NextMorningWeight Number `json:"next_morning_weight,omitzero"`
	WeightLost        Number `json:"weight_lost,omitzero"`
	Waist             Number `json:"waist,omitzero"`
	Hips              Number `json:"hips,omitzero"`
	TotalGrams        Number `json:"total_grams,omitzero"`
	TotalKcal         Number `json:"total_kcal,omitzero"`
	KcalDensity       Number `json:"kcal_density,omitzero"`
	Edema             Note   `json:"edema,omitempty"`
	CycleDay          Note   `json:"cycle_day,omitempty"`
	Stool             Note   `json:"stool,omitempty"`
}

// Meal is one eaten item with its mass in grams and energy in kcal.
type Meal struct {
	Time string `json:"time"`
	Food string `json:"food"`
	Mass Number `json:"mass,omitzero"`
	Kcal Number `json:"kcal,omitzero"`
}

// DecodeDailyParams parses a stored daily-parameters payload.
// An empty payload yields the zero value.
func DecodeDailyParams(raw string) (DailyParams, error) {
	var p DailyParams
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DailyParams{}, fmt.Errorf("decode daily params: %w", err)
	}
	return p, nil
}

var dailyParamKeys = jsonKeys(reflect.TypeFor[DailyParams]())

func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys[name] = struct{}{}
	}
	return keys
}

// ParseDailyParams decodes a submitted daily-parameters object and also
// returns, sorted, the keys it does not recognise. Those keys are dropped.
func ParseDailyParams(raw []byte) (DailyParams, []string, error) {
	var p DailyParams
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return p, nil, nil
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return DailyParams{}, nil, fmt.Errorf("decode daily params: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return DailyParams{}, nil, fmt.Errorf("decode daily params: %w", err)
	}
	var unknown []string
	for k := range fields {
		// encoding/json matches field names case-insensitively.
		if _, ok := dailyParamKeys[strings.ToLower(k)]; !ok {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return p, unknown, nil
}

// DecodeMeals parses a stored meal list. An empty payload yields an empty list.
func DecodeMeals(raw string) ([]Meal, error) {
	meals := []Meal{}
	if strings.TrimSpace(raw) == "" {
		return meals, nil
	}
	if err := json.Unmarshal([]byte(raw), &meals); err != nil {
		return nil, fmt.Errorf("decode meals: %w", err)
	}
	if meals == nil {
		meals = []Meal{}
	}
	return meals, nil
}

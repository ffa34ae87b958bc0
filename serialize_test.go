package dataobj_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dataobj"
)

func TestToMap(t *testing.T) {
	p := dataobj.MustFrom[person](homer())
	got, err := dataobj.ToMap(p)
	require.NoError(t, err)
	if diff := cmp.Diff(homer(), got); diff != "" {
		t.Fatalf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

type team struct {
	Name    string             `json:"name"`
	Lead    *person            `json:"lead"`
	Members []*person          `json:"members"`
	Extra   []dataobj.Record   `json:"extra"`
	Since   time.Time          `json:"since"`
	Secret  string             `json:"-"`
	Scores  map[string]float64 `json:"scores"`
}

func TestToMap_Nested(t *testing.T) {
	tm, err := dataobj.From[team](context.Background(), map[string]any{
		"name":    "Springfield",
		"lead":    homer(),
		"members": []any{map[string]any{"name": "Bart", "age": 10}},
		"extra":   []any{map[string]any{"k": "v"}},
		"since":   "1989-12-17",
		"scores":  map[string]float64{"a": 1.5},
	})
	require.NoError(t, err)

	got, err := dataobj.ToMap(tm)
	require.NoError(t, err)
	want := map[string]any{
		"name": "Springfield",
		"lead": homer(),
		"members": []any{
			map[string]any{"name": "Bart", "age": 10, "address": map[string]any(nil)},
		},
		"extra":  []any{map[string]any{"k": "v"}},
		"since":  time.Date(1989, 12, 17, 0, 0, 0, 0, time.UTC),
		"scores": map[string]float64{"a": 1.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

func TestToMap_NilCollection(t *testing.T) {
	got, err := dataobj.ToMap(&team{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, got["members"])
	assert.Equal(t, []any{}, got["extra"])
	assert.Nil(t, got["lead"])
}

func TestToMap_Errors(t *testing.T) {
	_, err := dataobj.ToMap(42)
	assert.Error(t, err)

	got, err := dataobj.ToMap((*person)(nil))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestToJSON(t *testing.T) {
	p := dataobj.MustFrom[person](homer())
	b, err := dataobj.ToJSON(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Homer Simpson",
		"age": 39,
		"address": {"street": "742 Evergreen Terrace", "city": "Springfield"}
	}`, string(b))

	back, err := dataobj.FromJSON[person](context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, p.Name, back.Name)
	assert.Equal(t, p.Age, back.Age)
	assert.Equal(t, p.Address, back.Address)
}

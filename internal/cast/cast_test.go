package cast

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dataobj/internal/fault"
	"github.com/reoring/dataobj/schema"
)

type status string

func (status) EnumValues() []string { return []string{"active", "inactive"} }

type level int

func (level) EnumValues() []string { return []string{"1", "2", "3"} }

type address struct {
	City string `json:"city"`
}

type sourceAttrs struct{ city string }

func (s sourceAttrs) ToAttributes() map[string]any { return map[string]any{"city": s.city} }

type target struct {
	Name     string
	Raw      string `dataobj:"notrim"`
	Age      int
	Ratio    float64
	Active   bool
	Nick     *string
	Status   status
	MaybeSt  *status
	Born     time.Time
	BornPtr  *time.Time
	Home     address
	Work     *address
	Homes    []address
	HomePtrs []*address
	Items    []schema.Record
	Tags     []string
	Meta     map[string]int
	Value    any          `union:"int,string"`
	Opt      any          `union:"null,Unknown"`
	Dated    any          `union:"date"`
	Named    fmt.Stringer `union:"null,Unknown"`
	Level    level
}

// fakeFiller records nested fills and builds instances by copying "city".
type fakeFiller struct {
	calls []map[string]any
}

func (f *fakeFiller) FillNew(_ context.Context, rt reflect.Type, input map[string]any) (reflect.Value, error) {
	f.calls = append(f.calls, input)
	p := reflect.New(rt)
	if city, ok := input["city"].(string); ok {
		p.Elem().FieldByName("City").SetString(city)
	}
	return p, nil
}

func setup(t *testing.T) (Caster, *schema.Type, *fakeFiller) {
	t.Helper()
	typ, err := schema.Of(reflect.TypeOf(target{}))
	require.NoError(t, err)
	ff := &fakeFiller{}
	return Caster{Filler: ff, Type: typ}, typ, ff
}

func castField(t *testing.T, c Caster, typ *schema.Type, name string, v any) (any, error) {
	t.Helper()
	f, ok := typ.Field(name)
	require.True(t, ok, name)
	out, err := c.Cast(context.Background(), v, f)
	if err != nil {
		return nil, err
	}
	require.True(t, out.Type().AssignableTo(f.Type.Go), "%s not assignable to %s", out.Type(), f.Type.Go)
	return out.Interface(), nil
}

func TestCast_Null(t *testing.T) {
	c, typ, _ := setup(t)

	v, err := castField(t, c, typ, "Nick", nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = castField(t, c, typ, "Name", nil)
	require.ErrorIs(t, err, fault.ErrInvalidCast)
	assert.Contains(t, err.Error(), "cannot assign null or empty value")
}

func TestCast_Scalars(t *testing.T) {
	c, typ, _ := setup(t)
	cases := []struct {
		field string
		in    any
		want  any
	}{
		{"Name", "  hello ", "hello"},
		{"Raw", "  hello ", "  hello "},
		{"Name", 42, "42"},
		{"Age", "30", 30},
		{"Age", "12abc", 12},
		{"Age", 3.9, 3},
		{"Ratio", "1.5", 1.5},
		{"Active", "yes", true},
		{"Active", "0", false},
	}
	for _, tc := range cases {
		got, err := castField(t, c, typ, tc.field, tc.in)
		require.NoError(t, err, "%s <- %v", tc.field, tc.in)
		assert.Equal(t, tc.want, got, "%s <- %v", tc.field, tc.in)
	}

	got, err := castField(t, c, typ, "Nick", "bob")
	require.NoError(t, err)
	require.IsType(t, (*string)(nil), got)
	assert.Equal(t, "bob", *got.(*string))
}

func TestCast_Enum(t *testing.T) {
	c, typ, _ := setup(t)

	got, err := castField(t, c, typ, "Status", "active")
	require.NoError(t, err)
	assert.Equal(t, status("active"), got)

	_, err = castField(t, c, typ, "Status", "bogus")
	require.ErrorIs(t, err, fault.ErrInvalidCast)

	// Nullable enums swallow unknown values.
	got, err = castField(t, c, typ, "MaybeSt", "bogus")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = castField(t, c, typ, "MaybeSt", "inactive")
	require.NoError(t, err)
	assert.Equal(t, status("inactive"), *got.(*status))

	// Non-string values must still name a member.
	_, err = castField(t, c, typ, "Status", 5)
	require.ErrorIs(t, err, fault.ErrInvalidCast)

	got, err = castField(t, c, typ, "MaybeSt", 5)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = castField(t, c, typ, "Status", status("inactive"))
	require.NoError(t, err)
	assert.Equal(t, status("inactive"), got)

	got, err = castField(t, c, typ, "Level", 2)
	require.NoError(t, err)
	assert.Equal(t, level(2), got)

	got, err = castField(t, c, typ, "Level", 2.0)
	require.NoError(t, err)
	assert.Equal(t, level(2), got)

	_, err = castField(t, c, typ, "Level", 9)
	require.ErrorIs(t, err, fault.ErrInvalidCast)
}

func TestCast_Date(t *testing.T) {
	c, typ, _ := setup(t)

	got, err := castField(t, c, typ, "Born", "2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.True(t, got.(time.Time).Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	now := time.Now()
	got, err = castField(t, c, typ, "BornPtr", now)
	require.NoError(t, err)
	assert.True(t, got.(*time.Time).Equal(now))

	_, err = castField(t, c, typ, "Born", "not a date")
	require.ErrorIs(t, err, fault.ErrInvalidCast)
}

func TestCast_ObjectDelegatesToFiller(t *testing.T) {
	c, typ, ff := setup(t)

	got, err := castField(t, c, typ, "Home", map[string]any{"city": "Oslo"})
	require.NoError(t, err)
	assert.Equal(t, address{City: "Oslo"}, got)

	got, err = castField(t, c, typ, "Work", sourceAttrs{city: "Rome"})
	require.NoError(t, err)
	assert.Equal(t, &address{City: "Rome"}, got)

	// Non-mapping values produce an instance from empty input.
	got, err = castField(t, c, typ, "Home", 7)
	require.NoError(t, err)
	assert.Equal(t, address{}, got)
	require.Len(t, ff.calls, 3)
	assert.Empty(t, ff.calls[2])

	// Instances pass through without a nested fill.
	inst := &address{City: "Lima"}
	got, err = castField(t, c, typ, "Work", inst)
	require.NoError(t, err)
	assert.Same(t, inst, got)
	assert.Len(t, ff.calls, 3)
}

func TestCast_Collections(t *testing.T) {
	c, typ, _ := setup(t)

	got, err := castField(t, c, typ, "Homes", []any{
		map[string]any{"city": "A"},
		map[string]any{"city": "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, []address{{City: "A"}, {City: "B"}}, got)

	got, err = castField(t, c, typ, "HomePtrs", map[string]any{
		"2": map[string]any{"city": "second"},
		"1": map[string]any{"city": "first"},
	})
	require.NoError(t, err)
	assert.Equal(t, []*address{{City: "first"}, {City: "second"}}, got)

	got, err = castField(t, c, typ, "Items", []any{map[string]any{"k": 1}})
	require.NoError(t, err)
	assert.Equal(t, []schema.Record{{"k": 1}}, got)

	got, err = castField(t, c, typ, "Homes", []any{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCast_Union(t *testing.T) {
	c, typ, _ := setup(t)

	got, err := castField(t, c, typ, "Value", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	got, err = castField(t, c, typ, "Dated", "2020-05-06T00:00:00Z")
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, got)

	// No castable option: passthrough.
	got, err = castField(t, c, typ, "Opt", []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	got, err = castField(t, c, typ, "Opt", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	// A narrower interface cannot hold a value outside its type.
	_, err = castField(t, c, typ, "Named", []int{1})
	require.ErrorIs(t, err, fault.ErrInvalidCast)

	got, err = castField(t, c, typ, "Named", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, got)
}

func TestCast_Passthrough(t *testing.T) {
	c, typ, _ := setup(t)

	got, err := castField(t, c, typ, "Tags", []any{"a", 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "2"}, got)

	got, err = castField(t, c, typ, "Meta", map[string]any{"x": "3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 3}, got)

	_, err = castField(t, c, typ, "Tags", struct{}{})
	require.ErrorIs(t, err, fault.ErrInvalidCast)
}

func TestAssign(t *testing.T) {
	v, err := Assign(int32(5), reflect.TypeOf(int64(0)))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Interface())

	v, err = Assign("x", reflect.TypeOf((*string)(nil)))
	require.NoError(t, err)
	assert.Equal(t, "x", *v.Interface().(*string))

	_, err = Assign(map[string]any{}, reflect.TypeOf(0))
	require.Error(t, err)
}

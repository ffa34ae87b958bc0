package dataobj

// Base can be embedded in a target type to keep the input snapshots of its
// last fill. It is not part of the field descriptors.
type Base struct {
	raw    map[string]any
	filled map[string]any
	data   any
}

// DataObjectBase marks Base for descriptor derivation.
func (Base) DataObjectBase() {}

// RawAttributes returns the input exactly as passed to the fill.
func (b *Base) RawAttributes() map[string]any { return b.raw }

// FilledAttributes returns the mapping the fill read from: the result of
// BeforeFill, or a copy of the input.
func (b *Base) FilledAttributes() map[string]any { return b.filled }

// WithData attaches an arbitrary companion value.
func (b *Base) WithData(v any) { b.data = v }

// Data returns the value attached with WithData.
func (b *Base) Data() any { return b.data }

func (b *Base) setAttributes(raw, filled map[string]any) {
	b.raw, b.filled = raw, filled
}

type attributeHolder interface {
	setAttributes(raw, filled map[string]any)
}

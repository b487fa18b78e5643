package model

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// FieldKind is the semantic type of a field. The built-in set can be extended
// with RegisterKind.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindEmail       FieldKind = "email"
	KindPassword    FieldKind = "password"
	KindURL         FieldKind = "url"
	KindTel         FieldKind = "tel"
	KindTextarea    FieldKind = "textarea"
	KindNumber      FieldKind = "number"
	KindDate        FieldKind = "date"
	KindSelect      FieldKind = "select"
	KindMultiSelect FieldKind = "multiselect"
	KindCheckbox    FieldKind = "checkbox"
	KindRadio       FieldKind = "radio"
	KindSwitch      FieldKind = "switch"
	KindFile        FieldKind = "file"
)

// BoundKind describes what Min and Max mean for a kind.
type BoundKind int

const (
	// BoundsNone means the kind does not accept Min/Max.
	BoundsNone BoundKind = iota
	// BoundsLength bounds the character count.
	BoundsLength
	// BoundsValue bounds the numeric value.
	BoundsValue
	// BoundsCount bounds the number of items.
	BoundsCount
	// BoundsDate bounds a date through After and Before instead of Min/Max.
	BoundsDate
)

// ValueType describes the shape of a kind's value, used to check defaults.
type ValueType int

const (
	ValueAny ValueType = iota
	ValueString
	ValueNumber
	ValueBool
	ValueDate
	ValueOption
	ValueOptionList
)

// KindTraits captures the construction rules of a field kind.
type KindTraits struct {
	RequiresOptions bool
	Bounds          BoundKind
	Value           ValueType
	AcceptsFiles    bool
}

var (
	kindsMu sync.RWMutex
	kinds   = map[FieldKind]KindTraits{
		KindText:        {Bounds: BoundsLength, Value: ValueString},
		KindEmail:       {Bounds: BoundsLength, Value: ValueString},
		KindPassword:    {Bounds: BoundsLength, Value: ValueString},
		KindURL:         {Bounds: BoundsLength, Value: ValueString},
		KindTel:         {Bounds: BoundsLength, Value: ValueString},
		KindTextarea:    {Bounds: BoundsLength, Value: ValueString},
		KindNumber:      {Bounds: BoundsValue, Value: ValueNumber},
		KindDate:        {Bounds: BoundsDate, Value: ValueDate},
		KindSelect:      {RequiresOptions: true, Value: ValueOption},
		KindMultiSelect: {RequiresOptions: true, Bounds: BoundsCount, Value: ValueOptionList},
		KindCheckbox:    {Value: ValueBool},
		KindRadio:       {RequiresOptions: true, Value: ValueOption},
		KindSwitch:      {Value: ValueBool},
		KindFile:        {Bounds: BoundsCount, AcceptsFiles: true},
	}
)

// RegisterKind adds or replaces a field kind. Registration is expected at
// program start, before schemas using the kind are built.
func RegisterKind(kind FieldKind, traits KindTraits) error {
	name := FieldKind(strings.TrimSpace(string(kind)))
	if name == "" {
		return fmt.Errorf("model: cannot register an empty field kind")
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[name] = traits
	return nil
}

// Traits returns the construction rules for kind.
func Traits(kind FieldKind) (KindTraits, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	traits, ok := kinds[kind]
	return traits, ok
}

// Kinds lists the registered kinds sorted by name.
func Kinds() []FieldKind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	out := make([]FieldKind, 0, len(kinds))
	for kind := range kinds {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

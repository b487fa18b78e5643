package layout

import (
	"fmt"
	"strings"
)

// Kind names a layout strategy.
type Kind string

const (
	// KindStacked renders members in a single vertical column.
	KindStacked Kind = "stacked"
	// KindPaired renders members on a fixed two column grid.
	KindPaired Kind = "paired"
	// KindInline renders members in a wrapping row sized to content.
	KindInline Kind = "inline"
	// KindResponsive renders members on a grid whose column count depends on
	// the breakpoint tier.
	KindResponsive Kind = "responsive"
)

// Tier names a breakpoint tier of a responsive layout.
type Tier string

const (
	TierCompact Tier = "compact"
	TierMedium  Tier = "medium"
	TierWide    Tier = "wide"
)

// Columns holds the per-tier column counts of a responsive layout.
type Columns struct {
	Compact int `json:"compact" yaml:"compact"`
	Medium  int `json:"medium" yaml:"medium"`
	Wide    int `json:"wide" yaml:"wide"`
}

// Descriptor is a purely descriptive layout attached to a group. The zero
// value is a stacked layout.
type Descriptor struct {
	Kind    Kind    `json:"kind" yaml:"kind"`
	Columns Columns `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// InvalidLayoutError reports a descriptor that cannot be rendered.
type InvalidLayoutError struct {
	Kind   Kind
	Tier   Tier
	Value  int
	Reason string
}

func (e *InvalidLayoutError) Error() string {
	if e.Tier != "" {
		return fmt.Sprintf("layout: %s column count for tier %s must be >= 1, got %d", e.Kind, e.Tier, e.Value)
	}
	return fmt.Sprintf("layout: invalid %q layout: %s", e.Kind, e.Reason)
}

// Stacked returns the single column layout.
func Stacked() Descriptor { return Descriptor{Kind: KindStacked} }

// Paired returns the two column layout.
func Paired() Descriptor { return Descriptor{Kind: KindPaired} }

// Inline returns the wrapping row layout.
func Inline() Descriptor { return Descriptor{Kind: KindInline} }

// Responsive returns a grid layout with explicit column counts per tier.
// Counts are validated by Validate, not here.
func Responsive(compact, medium, wide int) Descriptor {
	return Descriptor{
		Kind:    KindResponsive,
		Columns: Columns{Compact: compact, Medium: medium, Wide: wide},
	}
}

// Normalize fills defaults: an empty kind becomes stacked and non-responsive
// kinds drop column counts.
func (d Descriptor) Normalize() Descriptor {
	d.Kind = Kind(strings.ToLower(strings.TrimSpace(string(d.Kind))))
	if d.Kind == "" {
		d.Kind = KindStacked
	}
	if d.Kind != KindResponsive {
		d.Columns = Columns{}
	}
	return d
}

// Validate checks the descriptor after normalisation.
func (d Descriptor) Validate() error {
	d = d.Normalize()
	switch d.Kind {
	case KindStacked, KindPaired, KindInline:
		return nil
	case KindResponsive:
		tiers := []struct {
			tier  Tier
			value int
		}{
			{TierCompact, d.Columns.Compact},
			{TierMedium, d.Columns.Medium},
			{TierWide, d.Columns.Wide},
		}
		for _, entry := range tiers {
			if entry.value < 1 {
				return &InvalidLayoutError{Kind: d.Kind, Tier: entry.tier, Value: entry.value}
			}
		}
		return nil
	default:
		return &InvalidLayoutError{Kind: d.Kind, Reason: "unknown layout kind"}
	}
}

// ColumnsFor reports the column count a renderer should use at tier. Inline
// layouts report 0: items are sized to content.
func (d Descriptor) ColumnsFor(tier Tier) int {
	d = d.Normalize()
	switch d.Kind {
	case KindPaired:
		return 2
	case KindInline:
		return 0
	case KindResponsive:
		switch tier {
		case TierCompact:
			return d.Columns.Compact
		case TierMedium:
			return d.Columns.Medium
		default:
			return d.Columns.Wide
		}
	default:
		return 1
	}
}

package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		desc     Descriptor
		wantTier Tier
		wantErr  bool
	}{
		{name: "zero value", desc: Descriptor{}},
		{name: "stacked", desc: Stacked()},
		{name: "paired", desc: Paired()},
		{name: "inline", desc: Inline()},
		{name: "responsive", desc: Responsive(1, 2, 3)},
		{name: "responsive compact zero", desc: Responsive(0, 2, 3), wantErr: true, wantTier: TierCompact},
		{name: "responsive wide negative", desc: Responsive(1, 2, -1), wantErr: true, wantTier: TierWide},
		{name: "unknown", desc: Descriptor{Kind: "masonry"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.desc.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var layoutErr *InvalidLayoutError
			if !errors.As(err, &layoutErr) {
				t.Fatalf("expected InvalidLayoutError, got %v", err)
			}
			if layoutErr.Tier != tc.wantTier {
				t.Fatalf("expected tier %q, got %q", tc.wantTier, layoutErr.Tier)
			}
		})
	}
}

func TestHints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc Descriptor
		want map[string]string
	}{
		{desc: Descriptor{}, want: map[string]string{"layout": "stacked", "layout.columns": "1"}},
		{desc: Paired(), want: map[string]string{"layout": "paired", "layout.columns": "2"}},
		{desc: Inline(), want: map[string]string{"layout": "inline"}},
		{
			desc: Responsive(1, 2, 4),
			want: map[string]string{
				"layout":            "responsive",
				"layout.columns.sm": "1",
				"layout.columns.md": "2",
				"layout.columns.lg": "4",
			},
		},
	}

	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, tc.desc.Hints()); diff != "" {
			t.Fatalf("hints mismatch for %+v (-want +got):\n%s", tc.desc, diff)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  any
		want Descriptor
	}{
		{name: "nil", raw: nil, want: Stacked()},
		{name: "name", raw: "Paired", want: Paired()},
		{
			name: "tier names",
			raw: map[string]any{
				"kind":    "responsive",
				"columns": map[string]any{"compact": 1, "medium": 2, "wide": 3},
			},
			want: Responsive(1, 2, 3),
		},
		{
			name: "breakpoint aliases imply responsive",
			raw:  map[string]any{"columns": map[string]any{"sm": "1", "md": 2.0, "lg": 4}},
			want: Responsive(1, 2, 4),
		},
		{
			name: "columns dropped for stacked",
			raw:  map[string]any{"kind": "stacked", "columns": map[string]any{"sm": 3}},
			want: Stacked(),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_RejectsNonIntegerColumns(t *testing.T) {
	t.Parallel()

	if _, err := Parse(map[string]any{"columns": map[string]any{"compact": 1.5}}); err == nil {
		t.Fatalf("expected fractional column count to fail")
	}
	if _, err := Parse(42); err == nil {
		t.Fatalf("expected unsupported value to fail")
	}
}

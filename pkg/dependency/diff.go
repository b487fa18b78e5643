package dependency

import (
	"reflect"
	"sort"

	"github.com/goliatone/go-formschema/pkg/condition"
)

// Diff turns two successive snapshots into change events. Keys listed in
// order come first, in that order; remaining keys follow sorted by name. A key
// missing from one side reads as nil.
func Diff(prev, next condition.Values, order []string) []Event {
	seen := make(map[string]struct{}, len(prev)+len(next))
	keys := make([]string, 0, len(prev)+len(next))
	for _, key := range order {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	var rest []string
	for _, snapshot := range []condition.Values{prev, next} {
		for key := range snapshot {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var events []Event
	for _, key := range keys {
		oldValue, newValue := prev[key], next[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		events = append(events, Event{Field: key, Old: oldValue, New: newValue})
	}
	return events
}

package cv

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"resumake/internal/errors"
)

// DiffEntry is one field present on only one side of a comparison.
type DiffEntry struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// DiffChange is one field whose value differs between the two sides.
type DiffChange struct {
	Path string `json:"path"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// DiffReport lists all field-level differences between two CV documents,
// each sorted by path.
type DiffReport struct {
	Added   []DiffEntry  `json:"added"`
	Removed []DiffEntry  `json:"removed"`
	Changed []DiffChange `json:"changed"`
}

// Empty reports whether the two documents matched field for field.
func (r *DiffReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Diff compares two YAML documents field by field. Both sides are
// flattened to dot-separated paths; list entries carry a readable label
// (title, name or label, falling back to the index) so a reordered
// experience entry still matches by content.
func Diff(oldYAML, newYAML []byte) (*DiffReport, error) {
	oldFlat, err := flattenYAML(oldYAML)
	if err != nil {
		return nil, err
	}
	newFlat, err := flattenYAML(newYAML)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]bool, len(oldFlat)+len(newFlat))
	for p := range oldFlat {
		paths[p] = true
	}
	for p := range newFlat {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	report := &DiffReport{}
	for _, p := range sorted {
		oldVal, inOld := oldFlat[p]
		newVal, inNew := newFlat[p]
		switch {
		case inOld && !inNew:
			report.Removed = append(report.Removed, DiffEntry{Path: p, Value: oldVal})
		case !inOld && inNew:
			report.Added = append(report.Added, DiffEntry{Path: p, Value: newVal})
		case oldVal != newVal:
			report.Changed = append(report.Changed, DiffChange{Path: p, Old: oldVal, New: newVal})
		}
	}
	return report, nil
}

func flattenYAML(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"document is not valid YAML", err)
	}
	flat := make(map[string]string)
	flattenMap(doc, "", flat)
	return flat, nil
}

func flattenMap(m map[string]any, prefix string, out map[string]string) {
	for key, value := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		flattenValue(value, path, out)
	}
}

func flattenValue(value any, path string, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		flattenMap(v, path, out)
	case []any:
		for i, item := range v {
			if rec, ok := item.(map[string]any); ok {
				flattenMap(rec, fmt.Sprintf("%s[%s]", path, entryLabel(rec, i)), out)
				continue
			}
			flattenValue(item, fmt.Sprintf("%s[%d]", path, i), out)
		}
	case nil:
		out[path] = ""
	default:
		out[path] = fmt.Sprintf("%v", v)
	}
}

// entryLabel picks a stable human-readable address for a list entry.
func entryLabel(rec map[string]any, index int) string {
	for _, key := range []string{"title", "name", "label"} {
		if v, ok := rec[key].(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("%d", index)
}

// file: internals/helpers/multipartx/multipartx.go
package multipartx

import (
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ==============================
// Scalar values
// ==============================

// FirstValues flattens form values to their first, trimmed entry.
func FirstValues(form *multipart.Form) map[string]string {
	out := map[string]string{}
	if form == nil {
		return out
	}
	for k, vals := range form.Value {
		if len(vals) == 0 {
			continue
		}
		out[k] = strings.TrimSpace(vals[0])
	}
	return out
}

// ==============================
// Indexed groups (bracket notation)
// ==============================

// ParseIndexedGroups reads <prefix>[i][field] keys, e.g.
// additional_education[0][institution], and returns one map per index in
// ascending index order. Gaps in the index sequence are closed up.
func ParseIndexedGroups(values map[string][]string, prefix string) []map[string]string {
	if len(values) == 0 {
		return nil
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\[(\d+)\]\[([A-Za-z0-9_]+)\]$`)

	indexed := map[int]map[string]string{}
	for key, vals := range values {
		m := re.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := indexed[idx]; !ok {
			indexed[idx] = map[string]string{}
		}
		indexed[idx][m[2]] = strings.TrimSpace(vals[0])
	}
	if len(indexed) == 0 {
		return nil
	}

	keys := make([]int, 0, len(indexed))
	for k := range indexed {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, indexed[k])
	}
	return out
}

// ==============================
// File collector
// ==============================

// FilesByField returns the non-empty file parts of form keyed by field name.
// A trailing "[]" on the key is dropped so "certificates[]" and
// "certificates" land in the same bucket.
func FilesByField(form *multipart.Form) map[string][]*multipart.FileHeader {
	out := map[string][]*multipart.FileHeader{}
	if form == nil || form.File == nil {
		return out
	}
	for key, fhs := range form.File {
		name := strings.TrimSuffix(key, "[]")
		for _, fh := range fhs {
			if fh != nil && fh.Filename != "" {
				out[name] = append(out[name], fh)
			}
		}
	}
	return out
}

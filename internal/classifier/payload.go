package classifier

import (
	"fmt"
	"sort"
)

// flattenPayload reduces arbitrary nested JSON to a flat list of text
// fragments the signature tables scan one by one. Keys are included because
// attack fragments show up in keys as well as values. Map keys are walked in
// sorted order so identical payloads always flatten identically. Fragments
// that cannot be interpreted are rendered with %v rather than failing
// classification.
func flattenPayload(payload interface{}) []string {
	if payload == nil {
		return nil
	}

	var out []string
	flattenInto(&out, payload, 0)
	return out
}

// maxFlattenDepth guards against pathological nesting in attacker-supplied
// payloads.
const maxFlattenDepth = 32

func flattenInto(out *[]string, v interface{}, depth int) {
	if depth > maxFlattenDepth {
		return
	}

	switch t := v.(type) {
	case nil:
	case string:
		*out = append(*out, t)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			*out = append(*out, k)
			flattenInto(out, t[k], depth+1)
		}
	case []interface{}:
		for _, val := range t {
			flattenInto(out, val, depth+1)
		}
	default:
		*out = append(*out, fmt.Sprintf("%v", t))
	}
}

package interkassa

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// encodeForm flattens body the way PHP's http_build_query does:
// nested maps become key[sub]=v, slices key[0]=v, booleans 1/0, nil is skipped.
func encodeForm(body map[string]any) url.Values {
	if len(body) == 0 {
		return nil
	}
	v := url.Values{}
	for _, k := range sortedKeys(body) {
		appendForm(v, k, body[k])
	}
	return v
}

func appendForm(v url.Values, key string, val any) {
	switch t := val.(type) {
	case nil:
	case string:
		v.Add(key, t)
	case bool:
		if t {
			v.Add(key, "1")
		} else {
			v.Add(key, "0")
		}
	case int:
		v.Add(key, strconv.Itoa(t))
	case int64:
		v.Add(key, strconv.FormatInt(t, 10))
	case decimal.Decimal:
		v.Add(key, t.String())
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.Add(key+"["+k+"]", t[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(t) {
			appendForm(v, key+"["+k+"]", t[k])
		}
	case []string:
		for i, s := range t {
			v.Add(key+"["+strconv.Itoa(i)+"]", s)
		}
	case []any:
		for i, s := range t {
			appendForm(v, key+"["+strconv.Itoa(i)+"]", s)
		}
	case fmt.Stringer:
		v.Add(key, t.String())
	default:
		v.Add(key, fmt.Sprint(t))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

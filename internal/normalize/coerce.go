package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// text coerces scalars to a string. Objects, arrays, null and false yield "".
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True:
		return "true"
	}
	return ""
}

// firstText returns the first non-empty coerced string.
func firstText(rs ...gjson.Result) string {
	for _, r := range rs {
		if s := text(r); s != "" {
			return s
		}
	}
	return ""
}

// number coerces r to a finite float64; anything non-numeric is 0.
func number(r gjson.Result) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		v = f
	case gjson.True:
		v = 1
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// toInt64 truncates v and saturates at the int64 range.
func toInt64(v float64) int64 {
	switch {
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Trunc(v))
}

// toInt truncates v and saturates at the int range.
func toInt(v float64) int {
	switch {
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(math.Trunc(v))
}

// numberOr is number(r) when r is present and not null, def otherwise.
func numberOr(r gjson.Result, def float64) float64 {
	if !present(r) {
		return def
	}
	return number(r)
}

// optNumber returns nil for absent or null values.
func optNumber(r gjson.Result) *float64 {
	if !present(r) {
		return nil
	}
	v := number(r)
	return &v
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// truthy follows the usual loose truthiness: false, null, 0 and "" are false.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0 && !math.IsNaN(r.Num)
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		return true
	}
	return false
}

// each calls fn for every element when r is an array and does nothing otherwise.
func each(r gjson.Result, fn func(gjson.Result)) {
	if !r.IsArray() {
		return
	}
	r.ForEach(func(_, v gjson.Result) bool {
		fn(v)
		return true
	})
}

// names maps a list of bare strings or {name} objects to their names,
// dropping empty entries.
func names(r gjson.Result) []string {
	out := []string{}
	each(r, func(v gjson.Result) {
		if n := entryName(v); n != "" {
			out = append(out, n)
		}
	})
	return out
}

func entryName(v gjson.Result) string {
	if v.IsObject() {
		return text(v.Get("name"))
	}
	return text(v)
}

func entryField(v gjson.Result, key string) string {
	if v.IsObject() {
		return text(v.Get(key))
	}
	return ""
}

package source

import (
	"encoding/json"
	"math"
	"strconv"
)

// Providers are inconsistent about numeric types: the same field arrives as
// a JSON number, a quoted number, null or not at all. looseFloat absorbs all
// of those; anything non-numeric coerces to 0 so one bad field never fails
// the whole record.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return nil
		}
		s = unquoted
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = looseFloat(v)
	return nil
}

type looseInt int64

func (i *looseInt) UnmarshalJSON(data []byte) error {
	var f looseFloat
	_ = f.UnmarshalJSON(data)
	*i = looseInt(f)
	return nil
}

package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Count is a non-fractional counter decoded leniently from JSON: numbers,
// numeric strings, null and empty strings are all accepted. Anything that
// cannot be read as a number decodes to zero instead of failing the payload.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*c = 0
		return nil
	}

	switch v := raw.(type) {
	case string:
		*c = Count(parseCountString(v))
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			n = 0
		}
		*c = Count(n)
	}
	return nil
}

func parseCountString(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// Int64 returns the counter as a plain integer.
func (c Count) Int64() int64 { return int64(c) }

// FacilityID is an opaque facility identifier. Upstream payloads carry it as
// either a JSON number or a string; both decode to the same value.
type FacilityID string

func (id *FacilityID) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*id = ""
		return nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return err
	}
	*id = FacilityID(strings.TrimSpace(s))
	return nil
}

func (id FacilityID) String() string { return string(id) }

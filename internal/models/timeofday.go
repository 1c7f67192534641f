package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

// clockValue is the structured form of a time of day.
type clockValue struct {
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
	Second *int `json:"second"`
}

// ParseTimeOfDay accepts "HH:MM", "HH:MM:SS" or {"hour":H,"minute":M,"second":S}.
// field names the offending input in the returned validation error.
func ParseTimeOfDay(field string, raw json.RawMessage) (datatypes.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, apperrors.Invalid(field, field+" is required")
	}
	if raw[0] == '{' {
		var cv clockValue
		if err := json.Unmarshal(raw, &cv); err != nil || cv.Hour == nil || cv.Minute == nil {
			return 0, apperrors.Invalid(field, field+" must include hour and minute")
		}
		sec := 0
		if cv.Second != nil {
			sec = *cv.Second
		}
		return clock(field, *cv.Hour, *cv.Minute, sec)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, apperrors.Invalid(field, field+" must be a string like HH:MM")
	}
	return ParseClock(field, s)
}

// ParseClock parses "HH:MM" or "HH:MM:SS".
func ParseClock(field, s string) (datatypes.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, apperrors.Invalid(field, field+" must use HH:MM or HH:MM:SS")
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || !allDigits(p) {
			return 0, apperrors.Invalid(field, field+" must use HH:MM or HH:MM:SS")
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, apperrors.Invalid(field, field+" must use HH:MM or HH:MM:SS")
		}
		nums[i] = n
	}
	return clock(field, nums[0], nums[1], nums[2])
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func clock(field string, h, m, s int) (datatypes.Time, error) {
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, apperrors.Invalid(field, field+" is not a valid time of day")
	}
	return datatypes.NewTime(h, m, s, 0), nil
}

package utils

import "strconv"

// Int64ToStr formats an int64 id for use in URLs, room keys and logs.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 parses a decimal int64, typically a path or query parameter.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

package utils

// NewNullString returns a pointer to s, or nil when s is empty. Optional
// request fields use it so absent values land as NULL instead of "".
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

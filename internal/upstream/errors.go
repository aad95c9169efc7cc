package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the outcomes handlers branch on.
var (
	ErrNotFound       = errors.New("not found")
	ErrSessionExpired = errors.New("session expired")
	ErrPermission     = errors.New("permission denied")
)

// APIError carries the HTTP status plus a user-facing Arabic message built
// from the response body. It wraps one of the sentinels above when the
// status maps to one.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// newAPIError maps a non-2xx response into an APIError with a localized
// message. 400 bodies are Django-style field validation maps; every field
// message is folded into one string.
func newAPIError(status int, body []byte) *APIError {
	switch status {
	case 400:
		return &APIError{Status: status, Message: validationMessage(body)}
	case 401:
		return &APIError{Status: status, Message: "انتهت الجلسة، يرجى تسجيل الدخول مرة أخرى", Err: ErrSessionExpired}
	case 403:
		return &APIError{Status: status, Message: "ليس لديك صلاحية للقيام بهذا الإجراء", Err: ErrPermission}
	case 404:
		return &APIError{Status: status, Message: "العنصر المطلوب غير موجود", Err: ErrNotFound}
	default:
		return &APIError{Status: status, Message: detailMessage(body)}
	}
}

func detailMessage(body []byte) string {
	var d struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		return d.Detail
	}
	return "تعذر الاتصال بالخادم، يرجى المحاولة لاحقا"
}

// validationMessage flattens {"field": ["msg", ...], ...} into one line.
// Fields are sorted so the combined message is stable.
func validationMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return "البيانات المدخلة غير صالحة"
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		raw := fields[name]

		var many []string
		if err := json.Unmarshal(raw, &many); err == nil {
			for _, m := range many {
				parts = append(parts, name+": "+m)
			}
			continue
		}

		var one string
		if err := json.Unmarshal(raw, &one); err == nil && one != "" {
			parts = append(parts, name+": "+one)
		}
	}
	if len(parts) == 0 {
		return "البيانات المدخلة غير صالحة"
	}
	return strings.Join(parts, "؛ ")
}

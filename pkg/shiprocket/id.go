package shiprocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a Shiprocket identifier. The API emits ids as JSON numbers while
// webhooks and clients sometimes send them as strings; both decode to ID.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("shiprocket id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers, the form the API expects.
func (id ID) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(id))
	if s != "" && isDigits(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

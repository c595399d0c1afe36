package errors

import (
	"fmt"
	"strings"
)

// ProviderError records a non-2xx answer from an external API.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s responded %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s responded %d: %s", e.Provider, e.Status, body)
}

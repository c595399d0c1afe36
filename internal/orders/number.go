package orders

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	orderNumberPrefix = "ORD-"
	orderNumberDigits = 7
)

// NextOrderNumber returns the number following last. An empty or unparsable
// last number restarts the sequence at ORD-0000001.
func NextOrderNumber(last string) string {
	n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(last), orderNumberPrefix), 10, 64)
	if err != nil || n < 0 {
		n = 0
	}
	return fmt.Sprintf("%s%0*d", orderNumberPrefix, orderNumberDigits, n+1)
}

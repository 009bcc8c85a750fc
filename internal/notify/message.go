package notify

import (
	"fmt"
	"strings"
)

// FormatFailureMessage creates a failure notification body.
func FormatFailureMessage(date string, err error) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Could not build the digest for %s.\n", date))
	if err != nil {
		sb.WriteString(fmt.Sprintf("\nError: %v", err))
	}

	return sb.String()
}

// Package classify maps detected payloads to a classification.
package classify

import (
	"strings"

	"github.com/trymirror/scanflow/internal/domain"
)

// Classify categorizes a payload as a URL or plain text.
// A payload beginning with the literal prefix "http://" or "https://" is a
// URL; every other value, including the empty string, is plain text.
// No normalization and no well-formedness checks beyond the prefix.
func Classify(payload string) domain.Classification {
	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return domain.ClassificationURL
	}
	return domain.ClassificationPlainText
}

package repository

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// GenerateQuoteCode builds a human-readable quote reference like "QT-MB48213".
// The two random letters keep codes readable over the phone while the number
// keeps them unique enough for day-to-day lookup.
func GenerateQuoteCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	prefix := string(letters[rng.Intn(len(letters))]) + string(letters[rng.Intn(len(letters))])
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("QT-%s%d", prefix, number)
}

// GenerateOrderReference combines a category tag with a zero-padded sequence,
// e.g. "LABEL/MBX/0042".
func GenerateOrderReference(categoryTag string, namingConvention string, sequenceNumber int) string {
	formattedTag := strings.ToUpper(categoryTag)
	formattedSequence := fmt.Sprintf("%04d", sequenceNumber)

	return formattedTag + "/" + namingConvention + "/" + formattedSequence
}

// NextRevisionCode increments a revision code of the form "RV-01".
func NextRevisionCode(previousVersion string) string {
	if previousVersion == "" {
		return "RV-01"
	}

	if !strings.HasPrefix(previousVersion, "RV-") {
		return "RV-01"
	}

	var n int
	if _, err := fmt.Sscanf(previousVersion, "RV-%d", &n); err != nil {
		return "RV-01"
	}
	return fmt.Sprintf("RV-%02d", n+1)
}

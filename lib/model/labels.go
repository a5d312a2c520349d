package model

import "strings"

// NormalizeLabel strips the BIO prefix from a token-classification label and maps
// common spellings onto the CoNLL set. The outside label yields "".
func NormalizeLabel(label string) string {
	if label == "O" || label == "" {
		return ""
	}

	if len(label) >= 2 && label[1] == '-' {
		label = label[2:]
	}

	label = strings.ToUpper(label)
	switch label {
	case "PERSON":
		return "PER"
	case "ORGANIZATION", "ORGANISATION":
		return "ORG"
	case "LOCATION", "GPE":
		return "LOC"
	case "MISCELLANEOUS":
		return "MISC"
	default:
		return label
	}
}

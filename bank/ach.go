package bank

import "strings"

// ACH-style descriptions embed the payee between an originator marker and
// one of a fixed set of terminator markers, e.g.
//
//	ORIG CO NAME:AMERICAN EXPRESS ORIG ID:1234567 DESC DATE:240115 ...
//
// Check memos and other free text carry no marker; the truncated text then
// serves as both name and memo.

const achNameMarker = "ORIG CO NAME:"

var achTerminators = []string{"ORIG ID:", "DESC DATE:", "CO ENTRY DESCR:", "CO ENTRY"}

// ParsePayee extracts a payee name and memo from a transaction description.
// The memo is always the full original description, untruncated here; the
// name is capped at 32 characters.
func ParsePayee(description string) (name, memo string) {
	memo = description

	start := strings.Index(description, achNameMarker)
	if start < 0 {
		return truncate(strings.TrimSpace(description), maxNameLen), memo
	}

	rest := description[start+len(achNameMarker):]
	end := len(rest)
	for _, term := range achTerminators {
		if idx := strings.Index(rest, term); idx >= 0 && idx < end {
			end = idx
		}
	}

	return truncate(strings.TrimSpace(rest[:end]), maxNameLen), memo
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

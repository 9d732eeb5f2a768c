package smbios

import "strings"

// GetString returns string number index (1-based) of the string table that
// starts at tableOffset. It returns nil when index is 0, when the table ends
// before the index is reached, or when the string is empty or only whitespace.
func GetString(buf []byte, tableOffset int, index uint8) *string {
	if index == 0 || tableOffset < 0 {
		return nil
	}

	current := uint8(1)
	offset := tableOffset
	for offset < len(buf) {
		end := offset
		for end < len(buf) && buf[end] != 0 {
			end++
		}

		if current == index {
			return trimmed(string(buf[offset:end]))
		}

		// a second null right after a terminator closes the table
		offset = end + 1
		if offset >= len(buf) || buf[offset] == 0 {
			return nil
		}
		current++
	}

	return nil
}

// trimmed normalizes blank strings to nil. Non-blank strings are returned as is.
func trimmed(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

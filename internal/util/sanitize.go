// Copyright (c) 2026 Inkwell Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// SanitizeCategoryName normalizes a category name for storage and URL use.
// The name is lower-cased and every character outside [a-z0-9 +-] is deleted
// (not replaced). The transform is idempotent and runs on every save,
// including updates. A name made up entirely of disallowed characters
// sanitizes to the empty string, which then fails required-field validation.
func SanitizeCategoryName(name string) string {
	name = strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '+' || r == '-':
		default:
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

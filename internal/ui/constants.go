// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// ScrollMargin is the number of rows to keep visible above/below the cursor.
	ScrollMargin = 2

	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// HeaderHeight is the space for column header + separator in lists.
	HeaderHeight = 2

	// MinSurfaceHeight is the smallest surface panel worth drawing.
	MinSurfaceHeight = 3

	// StatusHeight is the footer line with key hints or the last error.
	StatusHeight = 1
)

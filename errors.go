package swirl

import "errors"

var (
	// ErrInvalidSize is returned when a canvas has a zero or negative dimension.
	ErrInvalidSize = errors.New("swirl: invalid canvas size")

	// ErrInvalidPalette is returned for palettes that are not 1, 3 or 4 colors long.
	ErrInvalidPalette = errors.New("swirl: palette must have 1, 3 or 4 colors")

	// ErrClosed is returned by an Animator after Close.
	ErrClosed = errors.New("swirl: animator closed")
)

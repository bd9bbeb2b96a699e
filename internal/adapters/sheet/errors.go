package sheet

import "errors"

// Sentinel kinds for sheet source errors.
var (
	ErrFetch  = errors.New("sheet fetch failed")
	ErrStatus = errors.New("sheet unexpected status")
	ErrParse  = errors.New("sheet parse failed")
)

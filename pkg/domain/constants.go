package domain

import "fmt"

// Direction is the transient direction of the last slide navigation.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Transition selects how a slide change is presented.
type Transition string

const (
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionNone  Transition = "none"
)

// Height is the fixed viewport height class of a slide deck.
type Height string

const (
	HeightSmall  Height = "sm"
	HeightMedium Height = "md"
	HeightLarge  Height = "lg"
	HeightXLarge Height = "xl"
	HeightAuto   Height = "auto"
)

// ArrowPosition places the previous/next buttons relative to the slide.
type ArrowPosition string

const (
	ArrowsInside  ArrowPosition = "inside"
	ArrowsOutside ArrowPosition = "outside"
)

// Key is a keyboard key name as delivered by a KeySource.
type Key string

const (
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
)

// ValidateTransition checks t against the known transition modes.
func ValidateTransition(t Transition) error {
	switch t {
	case TransitionFade, TransitionSlide, TransitionNone:
		return nil
	}
	return fmt.Errorf("%w: transition %q", ErrInvalidOption, t)
}

// ValidateHeight checks h against the known height classes.
func ValidateHeight(h Height) error {
	switch h {
	case HeightSmall, HeightMedium, HeightLarge, HeightXLarge, HeightAuto:
		return nil
	}
	return fmt.Errorf("%w: height %q", ErrInvalidOption, h)
}

// ValidateArrowPosition checks p against the known arrow placements.
func ValidateArrowPosition(p ArrowPosition) error {
	switch p {
	case ArrowsInside, ArrowsOutside:
		return nil
	}
	return fmt.Errorf("%w: arrow position %q", ErrInvalidOption, p)
}

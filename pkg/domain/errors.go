package domain

import "errors"

// ErrAutoAdvanceWithoutGate is returned when a step item enables auto-advance
// without declaring the gate variable that triggers it.
var ErrAutoAdvanceWithoutGate = errors.New("auto_advance requires completion_var")

// ErrInvalidLayout is returned when a lesson declares an unknown layout.
var ErrInvalidLayout = errors.New("invalid layout")

// ErrInvalidOption is returned when a controller option is outside its allowed set.
var ErrInvalidOption = errors.New("invalid option")

// ErrEmptyLesson is returned when a lesson directory contains no items.
var ErrEmptyLesson = errors.New("lesson has no items")

// ErrLessonNotFound is returned when the lesson manifest cannot be found.
var ErrLessonNotFound = errors.New("lesson not found")

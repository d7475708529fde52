package ml

import "errors"

// Sentinel errors for the ml package.
// Use errors.Is to check: errors.Is(err, ml.ErrNotLoaded)
var (
	// ErrNotLoaded is returned when a prediction is requested before any
	// model artifact has been loaded.
	ErrNotLoaded = errors.New("ml: no model artifact loaded")

	// ErrWidthMismatch is returned when an artifact's declared input width
	// does not match the feature contract. It is a fatal load error, never
	// a silent truncation or pad.
	ErrWidthMismatch = errors.New("ml: artifact input width does not match feature contract")

	// ErrInvalidArtifact is returned when an artifact fails structural
	// validation (bad format version, inconsistent weight shapes).
	ErrInvalidArtifact = errors.New("ml: invalid model artifact")

	// ErrNumericFault is returned when inference produces a non-finite
	// value. Callers treat it like any other predictor failure and fall
	// back to the baseline.
	ErrNumericFault = errors.New("ml: non-finite value during inference")

	// ErrInsufficientData is returned when training is attempted with
	// fewer samples than the configured minimum. The currently serving
	// artifact is left untouched.
	ErrInsufficientData = errors.New("ml: insufficient training samples")
)

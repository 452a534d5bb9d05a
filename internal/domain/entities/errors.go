package entities

import "errors"

// Domain errors
var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Transcript errors
	ErrNoTranscriptAvailable = errors.New("no transcript available")
	ErrTranscriptNotFound    = errors.New("transcript not found")

	// Index errors
	ErrIndexBuild    = errors.New("index build failed")
	ErrIndexNotFound = errors.New("index not found")

	// Generation errors
	ErrGeneration    = errors.New("generation failed")
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	// Storage errors
	ErrStorage = errors.New("storage unavailable")
)

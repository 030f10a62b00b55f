package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound       = errors.New("resource not found") // General not found
	ErrThemeNotFound  = errors.New("theme not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrStoryNotFound  = errors.New("story not found")
	ErrTurnNotFound   = errors.New("story turn not found")
	ErrForbidden      = errors.New("forbidden") // Authenticated, but not the story owner
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTurnConflict   = errors.New("another turn was stored concurrently for this story")
	ErrStoryCompleted = errors.New("story has reached its turn limit")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// Generation & Artifact Errors
	ErrProviderUnconfigured = errors.New("provider credential is not configured")
	ErrProviderCallFailed   = errors.New("provider call failed")
	ErrDownloadFailed       = errors.New("image download failed")
	ErrArtifactMissing      = errors.New("artifact is missing from storage")
	ErrAlreadyDispatched    = errors.New("story comic was already dispatched")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)

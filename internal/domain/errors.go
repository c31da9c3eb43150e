package domain

import "errors"

var (
	ErrInvalidGrade     = errors.New("invalid grade")
	ErrUnsupportedGrade = errors.New("grade not supported by scheduler")
	ErrInvalidLetter    = errors.New("invalid letter")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoVocabulary     = errors.New("vocabulary not loaded")
)

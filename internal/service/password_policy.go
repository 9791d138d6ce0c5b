package service

import (
	"fmt"
)

const defaultPasswordMinLength = 6

func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		minLength = defaultPasswordMinLength
	}
	if len([]rune(password)) < minLength {
		return fmt.Errorf("%w: minimum %d characters", ErrWeakPassword, minLength)
	}
	return nil
}

package tasks

import (
	"time"
	"unicode/utf8"
)

const (
	minTitleLen       = 3
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxStatusLen      = 20
)

const (
	msgTitleRequired     = "Title must not be null"
	msgTitleLength       = "Title must be between 3 and 100 characters"
	msgDescriptionLength = "Description must be less than 500 characters"
	msgStatusLength      = "Status must be less than 20 characters"
	msgDueDateFuture     = "Due date must be in the future"
)

// Validate checks in against the field rules and returns every violation in
// rule order. now is the reference time for the due date rule. An empty
// result means the input is acceptable.
func Validate(in TaskInput, now time.Time) []string {
	var violations []string

	if in.Title == "" {
		violations = append(violations, msgTitleRequired)
	} else if n := utf8.RuneCountInString(in.Title); n < minTitleLen || n > maxTitleLen {
		violations = append(violations, msgTitleLength)
	}

	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		violations = append(violations, msgDescriptionLength)
	}

	violations = append(violations, validateStatus(in.Status)...)

	if in.DueDate != nil && !in.DueDate.After(now) {
		violations = append(violations, msgDueDateFuture)
	}

	return violations
}

// validateStatus is shared by Validate and the status-only update path.
func validateStatus(status string) []string {
	if utf8.RuneCountInString(status) > maxStatusLen {
		return []string{msgStatusLength}
	}
	return nil
}

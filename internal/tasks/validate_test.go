package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Nanosecond)
	past := now.Add(-time.Hour)

	cases := []struct {
		name string
		in   TaskInput
		want []string
	}{
		{
			name: "minimal valid",
			in:   TaskInput{Title: "abc"},
		},
		{
			name: "all fields at their bounds",
			in: TaskInput{
				Title:       strings.Repeat("t", 100),
				Description: strings.Repeat("d", 500),
				Status:      strings.Repeat("s", 20),
				DueDate:     &future,
			},
		},
		{
			name: "missing title",
			in:   TaskInput{},
			want: []string{"Title must not be null"},
		},
		{
			name: "short title",
			in:   TaskInput{Title: "Hi"},
			want: []string{"Title must be between 3 and 100 characters"},
		},
		{
			name: "long title",
			in:   TaskInput{Title: strings.Repeat("t", 101)},
			want: []string{"Title must be between 3 and 100 characters"},
		},
		{
			name: "title length counts characters not bytes",
			in:   TaskInput{Title: "été"},
		},
		{
			name: "long description",
			in:   TaskInput{Title: "abc", Description: strings.Repeat("d", 501)},
			want: []string{"Description must be less than 500 characters"},
		},
		{
			name: "long status",
			in:   TaskInput{Title: "abc", Status: strings.Repeat("s", 21)},
			want: []string{"Status must be less than 20 characters"},
		},
		{
			name: "due date in the past",
			in:   TaskInput{Title: "abc", DueDate: &past},
			want: []string{"Due date must be in the future"},
		},
		{
			name: "due date equal to now is not in the future",
			in:   TaskInput{Title: "abc", DueDate: &now},
			want: []string{"Due date must be in the future"},
		},
		{
			name: "every rule reported in order",
			in: TaskInput{
				Description: strings.Repeat("d", 501),
				Status:      strings.Repeat("s", 21),
				DueDate:     &past,
			},
			want: []string{
				"Title must not be null",
				"Description must be less than 500 characters",
				"Status must be less than 20 characters",
				"Due date must be in the future",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.in, now))
		})
	}
}

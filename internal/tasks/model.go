package tasks

import (
	"encoding/json"
	"time"
)

// Task is the stored form of a task. ID is assigned by the Store on first
// save and CreatedDate is written once by the Service.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      string
	CreatedDate time.Time
	DueDate     *time.Time
}

// TaskInput is the inbound representation used by create and update.
// Identity and creation time are not part of it, so clients cannot set them.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UnmarshalJSON accepts the due date either as RFC 3339 or as a local
// date-time without zone ("2006-01-02T15:04:05"), which is read as UTC.
func (in *TaskInput) UnmarshalJSON(data []byte) error {
	type plain TaskInput
	var raw struct {
		plain
		DueDate *dueDate `json:"dueDate,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = TaskInput(raw.plain)
	in.DueDate = nil
	if raw.DueDate != nil {
		d := time.Time(*raw.DueDate)
		in.DueDate = &d
	}
	return nil
}

const localDateTime = "2006-01-02T15:04:05.999999999"

type dueDate time.Time

func (d *dueDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t, err = time.Parse(localDateTime, s); err != nil {
			return err
		}
	}
	*d = dueDate(t)
	return nil
}

// TaskView is the outbound representation returned to callers.
type TaskView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	CreatedDate time.Time  `json:"createdDate"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

package tasks

import "time"

// Stored timestamps are kept in UTC at microsecond precision so every store
// round-trips them unchanged.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func normalizeDue(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	d := normalizeTime(*due)
	return &d
}

// newTask builds an unsaved Task from a create request.
func newTask(in TaskInput, createdDate time.Time) Task {
	return Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CreatedDate: normalizeTime(createdDate),
		DueDate:     normalizeDue(in.DueDate),
	}
}

// applyInput replaces the mutable fields of t with those of in.
// ID and CreatedDate are left untouched.
func applyInput(t Task, in TaskInput) Task {
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.DueDate = normalizeDue(in.DueDate)
	return t
}

func toView(t Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedDate: t.CreatedDate,
		DueDate:     normalizeDue(t.DueDate),
	}
}

func toViews(ts []Task) []TaskView {
	out := make([]TaskView, 0, len(ts))
	for _, t := range ts {
		out = append(out, toView(t))
	}
	return out
}

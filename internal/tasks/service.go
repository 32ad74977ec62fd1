package tasks

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service owns task validation, the existence checks before mutation and the
// mapping between inbound, stored and outbound representations.
// It adds no locking: concurrent writes to one task resolve in the Store.
type Service struct {
	store  Store
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("tasks"),
		now:    time.Now,
	}
}

func (s *Service) CreateTask(ctx context.Context, in TaskInput) (view TaskView, err error) {
	ctx, done := s.begin(ctx, "create", 0)
	defer func() { done(err) }()

	now := s.now()
	if violations := Validate(in, now); len(violations) > 0 {
		return TaskView{}, validationFailed(violations)
	}

	t, err := s.store.Save(ctx, newTask(in, now))
	if err != nil {
		return TaskView{}, err
	}
	s.logger.InfoContext(ctx, "task_created", slog.Int64("id", t.ID))
	return toView(t), nil
}

func (s *Service) GetAllTasks(ctx context.Context) (views []TaskView, err error) {
	ctx, done := s.begin(ctx, "list", 0)
	defer func() { done(err) }()

	ts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(ts), nil
}

func (s *Service) GetTaskByID(ctx context.Context, id int64) (view TaskView, err error) {
	ctx, done := s.begin(ctx, "get", id)
	defer func() { done(err) }()

	t, err := s.mustFind(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	return toView(t), nil
}

// UpdateTask replaces title, description, status and due date of an
// existing task with those of in.
func (s *Service) UpdateTask(ctx context.Context, id int64, in TaskInput) (view TaskView, err error) {
	ctx, done := s.begin(ctx, "update", id)
	defer func() { done(err) }()

	t, err := s.mustFind(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	if violations := Validate(in, s.now()); len(violations) > 0 {
		return TaskView{}, validationFailed(violations)
	}

	t, err = s.store.Save(ctx, applyInput(t, in))
	if err != nil {
		return TaskView{}, err
	}
	s.logger.InfoContext(ctx, "task_updated", slog.Int64("id", t.ID))
	return toView(t), nil
}

// UpdateTaskStatus changes only the status of an existing task. The status
// length rule applies here as it does on create and update.
func (s *Service) UpdateTaskStatus(ctx context.Context, id int64, status string) (view TaskView, err error) {
	ctx, done := s.begin(ctx, "update_status", id)
	defer func() { done(err) }()

	t, err := s.mustFind(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	if violations := validateStatus(status); len(violations) > 0 {
		return TaskView{}, validationFailed(violations)
	}

	t.Status = status
	t, err = s.store.Save(ctx, t)
	if err != nil {
		return TaskView{}, err
	}
	s.logger.InfoContext(ctx, "task_status_updated",
		slog.Int64("id", t.ID),
		slog.String("status", t.Status),
	)
	return toView(t), nil
}

func (s *Service) DeleteTask(ctx context.Context, id int64) (err error) {
	ctx, done := s.begin(ctx, "delete", id)
	defer func() { done(err) }()

	t, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, t); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "task_deleted", slog.Int64("id", id))
	return nil
}

func (s *Service) mustFind(ctx context.Context, id int64) (Task, error) {
	t, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !ok {
		return Task{}, notFound()
	}
	return t, nil
}

// begin opens a span for op and returns the hook that records its outcome.
func (s *Service) begin(ctx context.Context, op string, id int64) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "tasks."+op)
	if id != 0 {
		span.SetAttributes(attribute.Int64("task.id", id))
	}
	return ctx, func(err error) {
		outcome := outcomeOf(err)
		taskOperationsTotal.WithLabelValues(op, outcome).Inc()
		span.SetAttributes(attribute.String("task.outcome", outcome))
		if outcome == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.ErrorContext(ctx, "task_store_error",
				slog.String("operation", op),
				slog.String("error", err.Error()),
			)
		}
		span.End()
	}
}

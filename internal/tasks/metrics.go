package tasks

import "github.com/prometheus/client_golang/prometheus"

var taskOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tasks_operations_total",
		Help: "Task service operations by outcome",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(taskOperationsTotal)
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	switch KindOf(err) {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}

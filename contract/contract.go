//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

// Worker is a long running loop owned by a supervisor.
// Returning nil means the work is over and the worker is not restarted.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName returns the type name of the worker, used as its label in logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

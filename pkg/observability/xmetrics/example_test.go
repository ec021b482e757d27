package xmetrics_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xdispatch/pkg/observability/xmetrics"
)

func ExampleNewOTelObserver() {
	obs, err := xmetrics.NewOTelObserver()
	if err != nil {
		panic(err)
	}

	var taskErr error
	_, span := xmetrics.Start(context.Background(), obs, xmetrics.SpanOptions{
		Pool:      "example",
		Operation: "task",
		Attrs:     []xmetrics.Attr{xmetrics.Uint64("task.id", 1)},
	})
	span.End(xmetrics.Result{Err: taskErr})

	fmt.Println("span ended")
	// Output: span ended
}

func ExampleStart_nilObserver() {
	_, span := xmetrics.Start(context.Background(), nil, xmetrics.SpanOptions{Operation: "skip"})
	span.End(xmetrics.Result{})

	fmt.Println("noop span ended")
	// Output: noop span ended
}

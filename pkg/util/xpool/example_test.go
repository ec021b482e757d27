package xpool_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/xdispatch/pkg/util/xpool"
)

func Example() {
	pool, err := xpool.New(4)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	futures := make([]*xpool.Future[int], 0, 5)
	for i := 1; i <= 5; i++ {
		f, err := xpool.Submit(pool, func() (int, error) { return i * i, nil })
		if err != nil {
			panic(err)
		}
		futures = append(futures, f)
	}

	sum := 0
	for _, f := range futures {
		v, err := f.Get(context.Background())
		if err != nil {
			panic(err)
		}
		sum += v
	}
	fmt.Println(sum)
	// Output: 55
}

func ExamplePool_Shutdown() {
	pool, err := xpool.New(1)
	if err != nil {
		panic(err)
	}

	f, _ := xpool.Submit(pool, func() (string, error) { return "drained", nil })

	// 已接受的任务在关闭前全部执行
	if err := pool.Shutdown(context.Background()); err != nil {
		panic(err)
	}
	v, _ := f.Get(context.Background())
	fmt.Println(v, pool.State())

	_, err = xpool.Submit(pool, func() (int, error) { return 0, nil })
	fmt.Println(errors.Is(err, xpool.ErrPoolStopped))
	// Output:
	// drained terminated
	// true
}

func ExampleNewPromise() {
	promise, future := xpool.NewPromise[string]()
	go func() { _ = promise.Resolve("hello") }()

	v, err := future.Get(context.Background())
	fmt.Println(v, err)
	// Output: hello <nil>
}

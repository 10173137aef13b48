package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/mapper"
	tasksv1 "todoapp/pkg/grpc/tasks/v1"
)

type stats struct {
	sent     uint64
	ok       uint64
	errCount uint64
	errCodes map[codes.Code]uint64
	mu       sync.Mutex
}

func (s *stats) fail(worker int, step string, err error) {
	code := status.Code(err)
	atomic.AddUint64(&s.errCount, 1)
	s.mu.Lock()
	s.errCodes[code]++
	s.mu.Unlock()
	fmt.Printf("[W%d] %s error code=%s msg=%s\n", worker, step, code.String(), err.Error())
}

func main() {
	addr := flag.String("addr", "127.0.0.1:50051", "gRPC address")
	workers := flag.Int("workers", 4, "number of concurrent workers")
	count := flag.Int("count", 100, "total task lifecycles (ignored if -forever)")
	forever := flag.Bool("forever", false, "run until interrupted")
	delay := flag.Duration("delay", 0, "delay between lifecycles per worker (e.g. 10ms)")
	timeout := flag.Duration("timeout", 5*time.Second, "per-call timeout")
	logEvery := flag.Int("log-every", 100, "log every N successes")
	verbose := flag.Bool("verbose", false, "log every lifecycle")
	keep := flag.Bool("keep", false, "keep created tasks instead of deleting them")
	watch := flag.Duration("watch", 0, "poll the task count at this interval (e.g. 1s)")
	flag.Parse()

	if *workers < 1 || (!*forever && *count < 1) {
		fmt.Println("usage: go run ./scripts/remote_load.go [--addr 127.0.0.1:50051] [--workers 4] [--count 100|--forever] [--delay 0ms] [--timeout 5s] [--keep] [--watch 1s]")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Printf("grpc client failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	client := tasksv1.NewTaskDataServiceClient(conn)

	st := stats{errCodes: make(map[codes.Code]uint64)}

	var watcher *countWatcher
	if *watch > 0 {
		watcher = startCountWatcher(ctx, client, *watch)
	}

	call := func(fn func(ctx context.Context) error) error {
		cctx, ccancel := context.WithTimeout(ctx, *timeout)
		defer ccancel()
		return fn(cctx)
	}

	lifecycle := func(worker int, n uint64) bool {
		task := entities.NewTask(fmt.Sprintf("load task %d", n), fmt.Sprintf("created by worker %d", worker))
		id := wrapperspb.String(task.ID())

		if err := call(func(ctx context.Context) error {
			_, err := client.SaveTask(ctx, mapper.Task(task))
			return err
		}); err != nil {
			st.fail(worker, "save", err)
			return false
		}
		if err := call(func(ctx context.Context) error {
			_, err := client.CompleteTask(ctx, id)
			return err
		}); err != nil {
			st.fail(worker, "complete", err)
			return false
		}
		if err := call(func(ctx context.Context) error {
			got, err := client.GetTask(ctx, id)
			if err != nil {
				return err
			}
			restored, err := mapper.TaskFromStruct(got)
			if err != nil {
				return status.Error(codes.DataLoss, err.Error())
			}
			if !restored.IsCompleted() {
				return status.Errorf(codes.FailedPrecondition, "task %s not completed after CompleteTask", task.ID())
			}
			return nil
		}); err != nil {
			st.fail(worker, "get", err)
			return false
		}
		if !*keep {
			if err := call(func(ctx context.Context) error {
				_, err := client.DeleteTask(ctx, id)
				return err
			}); err != nil {
				st.fail(worker, "delete", err)
				return false
			}
		}
		return true
	}

	run := func(id int) {
		for {
			n := atomic.AddUint64(&st.sent, 1)
			if !*forever && n > uint64(*count) {
				atomic.AddUint64(&st.sent, ^uint64(0))
				return
			}

			if lifecycle(id, n) {
				ok := atomic.AddUint64(&st.ok, 1)
				if *verbose || (ok%uint64(*logEvery) == 0) {
					fmt.Printf("[W%d] ok (%d)\n", id, ok)
				}
			}

			if *delay > 0 {
				select {
				case <-time.After(*delay):
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}

	started := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			run(id + 1)
		}(i)
	}
	wg.Wait()

	if watcher != nil {
		watcher.Stop()
	}

	st.mu.Lock()
	fmt.Printf("summary sent=%d ok=%d errors=%d error_codes=%v elapsed=%s\n",
		atomic.LoadUint64(&st.sent), atomic.LoadUint64(&st.ok), atomic.LoadUint64(&st.errCount), st.errCodes, time.Since(started).Round(time.Millisecond))
	st.mu.Unlock()
}

type countWatcher struct {
	client  tasksv1.TaskDataServiceClient
	last    int
	peak    int
	changes int
	cancel  context.CancelFunc
	done    chan struct{}
}

func startCountWatcher(ctx context.Context, client tasksv1.TaskDataServiceClient, poll time.Duration) *countWatcher {
	wctx, cancel := context.WithCancel(ctx)
	w := &countWatcher{
		client: client,
		last:   -1,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.loop(wctx, poll)
	return w
}

func (w *countWatcher) loop(ctx context.Context, poll time.Duration) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := w.client.GetTasks(ctx, &emptypb.Empty{})
			if err != nil {
				continue
			}
			n := len(list.GetValues())
			if w.last >= 0 && n != w.last {
				w.changes++
				fmt.Printf("watch: task count %d -> %d\n", w.last, n)
			}
			if n > w.peak {
				w.peak = n
			}
			w.last = n
		}
	}
}

func (w *countWatcher) Stop() {
	w.cancel()
	<-w.done
	fmt.Printf("watch summary last=%d peak=%d changes=%d\n", w.last, w.peak, w.changes)
}

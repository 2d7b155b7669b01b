// jobsys-bench drives a pkg/jobsys Manager with a synthetic batch of jobs
// and reports throughput. It replaces arena-cache-inspect (an HTTP snapshot
// poller, meaningless without a running cache service to poll) and folds in
// dataset_gen's flag-driven distribution generator, repurposed to emit
// job costs instead of cache keys. Every job is scheduled at priority 0.
//
// Usage:
//
//	go run ./cmd/jobsys-bench -workers 8 -jobs 1000000 -dist zipf -seed 42
//
// Flags:
//
//	-workers  worker pool size (default runtime.GOMAXPROCS(0))
//	-jobs     number of jobs to schedule (default 1e6)
//	-dist     job-cost distribution: "uniform" or "zipf" (default uniform)
//	-zipfs    zipf s parameter (>1) (default 1.2)
//	-zipfv    zipf v parameter (>0) (default 1.0)
//	-seed     PRNG seed (default current time)
//	-json     emit a JSON summary instead of text
//
// © 2025 nstl authors. MIT License.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Voskan/nstl/pkg/jobsys"
)

var version = "dev"

type options struct {
	workers int
	jobs    int
	dist    string
	zipfS   float64
	zipfV   float64
	seed    int64
	asJSON  bool
	version bool
}

func parseFlags() *options {
	opts := &options{}
	flag.IntVar(&opts.workers, "workers", runtime.GOMAXPROCS(0), "worker pool size")
	flag.IntVar(&opts.jobs, "jobs", 1_000_000, "number of jobs to schedule")
	flag.StringVar(&opts.dist, "dist", "uniform", "job-cost distribution: uniform or zipf")
	flag.Float64Var(&opts.zipfS, "zipfs", 1.2, "zipf s parameter (>1)")
	flag.Float64Var(&opts.zipfV, "zipfv", 1.0, "zipf v parameter (>0)")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "PRNG seed")
	flag.BoolVar(&opts.asJSON, "json", false, "emit a JSON summary instead of text")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	if opts.version {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	summary, err := run(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jobsys-bench:", err)
		os.Exit(1)
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
		return
	}
	fmt.Printf("workers:     %d\n", opts.workers)
	fmt.Printf("jobs:        %d\n", opts.jobs)
	fmt.Printf("distribution:%s\n", opts.dist)
	fmt.Printf("elapsed:     %s\n", summary.Elapsed)
	fmt.Printf("jobs/sec:    %.0f\n", summary.JobsPerSecond)
}

type summary struct {
	Elapsed       time.Duration `json:"elapsed_ns"`
	JobsPerSecond float64       `json:"jobs_per_second"`
}

// run builds a cost generator per opts.dist, schedules opts.jobs jobs
// against a single Manager and Counter, and times the batch to completion.
func run(ctx context.Context, opts *options) (summary, error) {
	gen, err := costGenerator(opts)
	if err != nil {
		return summary{}, err
	}

	m, err := jobsys.New(jobsys.WithWorkerCount(opts.workers))
	if err != nil {
		return summary{}, err
	}
	defer m.Shutdown()

	counter := jobsys.NewCounter()
	start := time.Now()

	for i := 0; i < opts.jobs; i++ {
		if ctx.Err() != nil {
			break
		}
		cost := gen()
		m.ScheduleJob(jobsys.NewJobInfo(func() { burn(cost) }), counter)
	}
	m.WaitForCounter(counter)

	elapsed := time.Since(start)
	jobsPerSec := float64(opts.jobs) / elapsed.Seconds()
	return summary{Elapsed: elapsed, JobsPerSecond: jobsPerSec}, nil
}

// burn spends n%64 trivial iterations, standing in for real job cost
// without pulling in an external workload generator.
func burn(n uint64) {
	var acc uint64
	for i := uint64(0); i < n%64; i++ {
		acc += i
	}
	_ = acc
}

func costGenerator(opts *options) (func() uint64, error) {
	rnd := rand.New(rand.NewSource(opts.seed))
	switch opts.dist {
	case "uniform":
		return rnd.Uint64, nil
	case "zipf":
		if opts.zipfS <= 1.0 || opts.zipfV <= 0 {
			return nil, fmt.Errorf("zipfs must be >1 and zipfv >0")
		}
		z := rand.NewZipf(rnd, opts.zipfS, opts.zipfV, ^uint64(0))
		return z.Uint64, nil
	default:
		return nil, fmt.Errorf("unknown dist: %s", opts.dist)
	}
}

package toylang

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
)

// ConcurrentChecker parses and validates many source files in parallel.
// It never executes them.
type ConcurrentChecker struct {
	workers int
}

// NewConcurrentChecker creates a checker; workers <= 0 means one per CPU.
func NewConcurrentChecker(workers int) *ConcurrentChecker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ConcurrentChecker{workers: workers}
}

// CheckResult is the outcome for one file. Err is nil for a clean file, a
// *MultiError for validation problems, or a single error otherwise.
type CheckResult struct {
	Filename string
	Program  *Program
	Err      error
}

// CheckFiles checks files and returns results in the order given.
func (cc *ConcurrentChecker) CheckFiles(ctx context.Context, files []string) ([]CheckResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	jobs := make(chan int, len(files))
	results := make([]CheckResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < cc.workers && i < len(files); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				results[idx] = checkFile(files[idx])
			}
		}()
	}

	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(filename string) CheckResult {
	result := CheckResult{Filename: filename}
	content, err := os.ReadFile(filename)
	if err != nil {
		result.Err = fmt.Errorf("failed to read file %s: %w", filename, err)
		return result
	}
	result.Program, result.Err = CheckSource(string(content))
	return result
}

// CheckSource parses src and reports every validation problem.
func CheckSource(src string) (*Program, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if errs := ValidateAll(prog); errs.HasErrors() {
		return prog, errs
	}
	return prog, nil
}

// BatchRunner runs independent programs concurrently, each with its own
// Interpreter.
type BatchRunner struct {
	workers int
}

// NewBatchRunner creates a runner; workers <= 0 means one per CPU.
func NewBatchRunner(workers int) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{workers: workers}
}

// RunAll runs every source and returns results in input order. options,
// when non-nil, supplies the options for the program at each index; runs
// must not share an output writer unless it is safe for concurrent use.
func (br *BatchRunner) RunAll(ctx context.Context, sources []string, options func(index int) []Option) ([]RunResult, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	jobs := make(chan int, len(sources))
	results := make([]RunResult, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < br.workers && i < len(sources); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				var opts []Option
				if options != nil {
					opts = options(idx)
				}
				results[idx] = Run(sources[idx], opts...)
			}
		}()
	}

	for i := range sources {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

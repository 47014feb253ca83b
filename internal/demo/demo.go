// Package demo drives the aliasing demonstration: it builds the sequence,
// hands the accumulator a value aliasing one of its elements, and prints the
// result as a single line.
package demo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"aliasdemo/internal/accumulate"
	"aliasdemo/internal/config"
	"aliasdemo/internal/logging"

	"go.uber.org/zap"
)

// Result describes one run of the driver.
type Result struct {
	Mode    config.Mode
	Initial []int
	Final   []int
	// Steps is empty in cached mode, which reads the value only once.
	Steps []accumulate.Step
}

// Runner executes the demonstration for a configuration.
type Runner struct {
	cfg *config.Config
	log *logging.Logger
}

// NewRunner creates a Runner. A nil logger discards all output.
func NewRunner(cfg *config.Config, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{cfg: cfg, log: log}
}

// NewSequence returns length copies of fill.
func NewSequence(length, fill int) []int {
	items := make([]int, length)
	for i := range items {
		items[i] = fill
	}
	return items
}

// Format writes each element followed by a single space, then a newline.
func Format(w io.Writer, items []int) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		bw.WriteString(strconv.Itoa(item))
		bw.WriteByte(' ')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Compute builds the sequence and runs the configured accumulation without printing.
func (r *Runner) Compute() (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	seq := r.cfg.Sequence
	items := NewSequence(seq.Length, seq.Fill)
	res := &Result{
		Mode:    r.cfg.Mode,
		Initial: append([]int(nil), items...),
	}

	driverLog := r.log.Get(logging.CategoryDriver)
	driverLog.Debug("sequence built",
		zap.Int("length", seq.Length),
		zap.Int("fill", seq.Fill),
		zap.Int("alias_index", seq.AliasIndex),
		zap.String("mode", string(r.cfg.Mode)))

	if len(items) > 0 {
		switch r.cfg.Mode {
		case config.ModeReread:
			res.Steps = accumulate.Trace(items, &items[seq.AliasIndex])
		case config.ModeIndex:
			res.Steps = accumulate.TraceAt(items, seq.AliasIndex)
		case config.ModeCached:
			accumulate.AddNumbersCached(items, items[seq.AliasIndex])
		}
	}

	stepLog := r.log.Get(logging.CategoryAccumulate)
	for _, s := range res.Steps {
		stepLog.Debug("step",
			zap.Int("index", s.Index),
			zap.Int("before", s.Before),
			zap.Int("addend", s.Addend),
			zap.Int("after", s.After))
	}

	res.Final = items
	driverLog.Debug("accumulation complete", zap.Ints("final", items))
	return res, nil
}

// Run computes the result and writes the final sequence to w.
func (r *Runner) Run(w io.Writer) (*Result, error) {
	res, err := r.Compute()
	if err != nil {
		return nil, err
	}
	if err := Format(w, res.Final); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return res, nil
}

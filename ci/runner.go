/*
 * runner.go, part of offkit.
 *
 * Copyright 2026 The offkit developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ci

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/openffgo/offkit/toolkit"
	"golang.org/x/sync/errgroup"
)

//Job is the state one matrix cell carries through its steps. Toolkits
//is the cell's own map: the availability guard swaps entries in it
//without any other cell noticing.
type Job struct {
	Cell     Cell
	Event    Event
	Env      map[string]string
	Log      *slog.Logger
	Toolkits map[string]toolkit.Wrapper //by matrix-axis name
}

//StepImpl is one runnable step. The with map comes straight from the
//workflow file.
type StepImpl func(ctx context.Context, job *Job, with map[string]string) error

//Runner executes a workflow: every matrix cell in parallel, the steps
//of each cell in order.
type Runner struct {
	wf    *Workflow
	log   *slog.Logger
	impls map[string]StepImpl
	tks   map[string]toolkit.Wrapper
}

//NewRunner returns a Runner for the workflow with the builtin steps
//registered and the standard toolkit backends wired to the usual
//matrix-axis names.
func NewRunner(wf *Workflow, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{
		wf:    wf,
		log:   log,
		impls: map[string]StepImpl{},
		tks: map[string]toolkit.Wrapper{
			"rdkit":     toolkit.NewRDKit(),
			"openbabel": toolkit.NewOpenBabel(),
		},
	}
	r.registerBuiltins()
	return r
}

//Register adds or replaces a step implementation.
func (R *Runner) Register(name string, impl StepImpl) {
	R.impls[name] = impl
}

//SetToolkit binds a matrix-axis name to a backend. The availability
//guard uses this binding.
func (R *Runner) SetToolkit(name string, w toolkit.Wrapper) {
	R.tks[name] = w
}

//CellError is the failure of one cell, naming the step that broke it.
type CellError struct {
	Cell Cell
	Step string
	Err  error
}

func (err *CellError) Error() string {
	return fmt.Sprintf("cell %s [%s]: step %q: %s", err.Cell.String(), err.Cell.ID, err.Step, err.Err.Error())
}

func (err *CellError) Unwrap() error { return err.Err }

//Run executes the workflow for the event. When the event doesn't
//trigger the workflow nothing runs and Run returns nil. All matrix
//cells run concurrently and to completion regardless of each other;
//the error, if any, collects every failed cell.
func (R *Runner) Run(ctx context.Context, ev Event) error {
	if !R.wf.ShouldRun(ev) {
		R.log.Info("workflow skipped", "workflow", R.wf.Name, "event", ev.Kind, "repo", ev.Repo)
		return nil
	}
	for _, st := range R.wf.Steps {
		if _, ok := R.impls[st.Uses]; !ok {
			return Error{message: NoStepImpl + ": " + st.Uses, deco: []string{"Run"}}
		}
	}
	cells := R.wf.Matrix.Expand()
	R.log.Info("workflow started", "workflow", R.wf.Name, "event", ev.Kind, "cells", len(cells))
	var mu sync.Mutex
	var failed []*CellError
	var g errgroup.Group //deliberately no shared cancellation between cells
	for _, cell := range cells {
		cell := cell
		g.Go(func() error {
			if err := R.runCell(ctx, cell, ev); err != nil {
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait() //the error is always nil, failures are in the slice
	if len(failed) == 0 {
		R.log.Info("workflow passed", "workflow", R.wf.Name)
		return nil
	}
	msgs := make([]string, len(failed))
	for i, f := range failed {
		msgs[i] = f.Error()
	}
	return Error{message: fmt.Sprintf("%d of %d cells failed:\n%s", len(failed), len(cells), strings.Join(msgs, "\n")), deco: []string{"Run"}}
}

//runCell runs the step list in one cell. The first failing step ends
//the cell. The job gets its own copy of the toolkit bindings, so
//whatever the availability guard takes away stays within the cell.
func (R *Runner) runCell(ctx context.Context, cell Cell, ev Event) *CellError {
	log := R.log.With("cell", cell.String(), "id", cell.ID)
	tks := make(map[string]toolkit.Wrapper, len(R.tks))
	for name, w := range R.tks {
		tks[name] = w
	}
	job := &Job{
		Cell:     cell,
		Event:    ev,
		Env:      R.wf.Env,
		Log:      log,
		Toolkits: tks,
	}
	for _, st := range R.wf.Steps {
		log.Info("step started", "step", st.Name)
		if err := R.impls[st.Uses](ctx, job, st.With); err != nil {
			log.Error("step failed", "step", st.Name, "error", err)
			return &CellError{Cell: cell, Step: st.Name, Err: err}
		}
		log.Info("step passed", "step", st.Name)
	}
	return nil
}

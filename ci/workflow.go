/*
 * workflow.go, part of offkit.
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
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

//Error is the concrete error type of the ci package.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.message, err.filename)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

const (
	UnableToOpen    = "Unable to open workflow file"
	NotWellFormed   = "Workflow is not well-formed YAML"
	BadCron         = "Invalid cron expression"
	EmptyMatrix     = "Matrix needs at least one OS and one runtime"
	EmptyAxis       = "Matrix toolkit axis needs at least one flag"
	FailFastSet     = "fail-fast must stay false: matrix cells are independent"
	NoCanonicalRepo = "Scheduled triggers need canonical_repo set"
	NoStepImpl      = "Step names no implementation"
)

//Workflow is one CI workflow file.
type Workflow struct {
	Name          string            `yaml:"name"`
	On            Triggers          `yaml:"on"`
	Env           map[string]string `yaml:"env"`
	CanonicalRepo string            `yaml:"canonical_repo"`
	Matrix        Matrix            `yaml:"matrix"`
	Steps         []Step            `yaml:"steps"`
}

//Triggers declares which events start the workflow.
type Triggers struct {
	Push        *BranchTrigger    `yaml:"push"`
	PullRequest *BranchTrigger    `yaml:"pull_request"`
	Schedule    []ScheduleTrigger `yaml:"schedule"`
}

//BranchTrigger restricts push and pull_request events to branches. An
//empty list means any branch.
type BranchTrigger struct {
	Branches []string `yaml:"branches"`
}

//ScheduleTrigger starts the workflow on a cron schedule.
type ScheduleTrigger struct {
	Cron string `yaml:"cron"`
}

//Matrix is the environment matrix. Every combination of OS, runtime
//and per-toolkit availability flag becomes one independent cell.
type Matrix struct {
	OS       []string          `yaml:"os"`
	Runtime  []string          `yaml:"runtime"`
	Toolkits map[string][]bool `yaml:"toolkits"`
	FailFast bool              `yaml:"fail-fast"`
}

//Step is one entry of the step list. Uses names a step implementation
//known to the runner; With carries its parameters.
type Step struct {
	Name string            `yaml:"name"`
	Uses string            `yaml:"uses"`
	With map[string]string `yaml:"with"`
}

//Load reads and validates a workflow.
func Load(r io.Reader) (*Workflow, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, Error{message: err.Error(), deco: []string{"Load"}}
	}
	w := new(Workflow)
	if err := yaml.Unmarshal(b, w); err != nil {
		return nil, Error{message: NotWellFormed + ": " + err.Error(), deco: []string{"Load"}}
	}
	if err := w.validate(); err != nil {
		return nil, errDecorate(err, "Load")
	}
	return w, nil
}

//LoadFile reads and validates the workflow in the named file.
func LoadFile(name string) (*Workflow, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{message: UnableToOpen, filename: name, deco: []string{"LoadFile"}}
	}
	defer f.Close()
	w, err := Load(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			return nil, e
		}
		return nil, err
	}
	return w, nil
}

func (W *Workflow) validate() error {
	for _, s := range W.On.Schedule {
		if _, err := cron.ParseStandard(s.Cron); err != nil {
			return Error{message: BadCron + " " + s.Cron + ": " + err.Error(), deco: []string{"validate"}}
		}
	}
	if len(W.On.Schedule) > 0 && W.CanonicalRepo == "" {
		return Error{message: NoCanonicalRepo, deco: []string{"validate"}}
	}
	if len(W.Matrix.OS) == 0 || len(W.Matrix.Runtime) == 0 {
		return Error{message: EmptyMatrix, deco: []string{"validate"}}
	}
	if W.Matrix.FailFast {
		return Error{message: FailFastSet, deco: []string{"validate"}}
	}
	//an axis without flags would silently multiply the matrix by zero
	for name, flags := range W.Matrix.Toolkits {
		if len(flags) == 0 {
			return Error{message: EmptyAxis + ": " + name, deco: []string{"validate"}}
		}
	}
	for i, st := range W.Steps {
		if st.Uses == "" {
			return Error{message: fmt.Sprintf("%s: step %d (%s)", NoStepImpl, i, st.Name), deco: []string{"validate"}}
		}
	}
	return nil
}

//Cell is one fully-specified environment out of the matrix.
type Cell struct {
	ID       string //unique per expansion, for the logs
	OS       string
	Runtime  string
	Toolkits map[string]bool
}

//String identifies the cell the way the logs and error messages do.
func (C Cell) String() string {
	s := C.OS + "/" + C.Runtime
	names := make([]string, 0, len(C.Toolkits))
	for name := range C.Toolkits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s += fmt.Sprintf("/%s=%t", name, C.Toolkits[name])
	}
	return s
}

//Expand returns the cartesian product of the matrix axes, one Cell per
//combination, in a deterministic order (toolkit axes sorted by name).
func (M Matrix) Expand() []Cell {
	cells := []Cell{}
	for _, osname := range M.OS {
		for _, rt := range M.Runtime {
			cells = append(cells, Cell{OS: osname, Runtime: rt, Toolkits: map[string]bool{}})
		}
	}
	names := make([]string, 0, len(M.Toolkits))
	for name := range M.Toolkits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		flags := M.Toolkits[name]
		next := make([]Cell, 0, len(cells)*len(flags))
		for _, c := range cells {
			for _, flag := range flags {
				nc := Cell{OS: c.OS, Runtime: c.Runtime, Toolkits: map[string]bool{}}
				for k, v := range c.Toolkits {
					nc.Toolkits[k] = v
				}
				nc.Toolkits[name] = flag
				next = append(next, nc)
			}
		}
		cells = next
	}
	for i := range cells {
		cells[i].ID = uuid.NewString()
	}
	return cells
}

//Event kinds.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
	EventSchedule    = "schedule"
)

//Event is what happened to the repository.
type Event struct {
	Kind   string
	Repo   string //owner/name of the repository the event fired on
	Branch string
}

//ShouldRun says whether the workflow runs for the event. Scheduled
//events only run on the canonical repository, so forks don't burn
//their CI allowance on nightlies; push and pull_request events honor
//their branch restrictions.
func (W *Workflow) ShouldRun(ev Event) bool {
	switch ev.Kind {
	case EventSchedule:
		return len(W.On.Schedule) > 0 && ev.Repo == W.CanonicalRepo
	case EventPush:
		return W.On.Push != nil && branchMatch(W.On.Push.Branches, ev.Branch)
	case EventPullRequest:
		return W.On.PullRequest != nil && branchMatch(W.On.PullRequest.Branches, ev.Branch)
	}
	return false
}

func branchMatch(branches []string, branch string) bool {
	if len(branches) == 0 {
		return true
	}
	for _, b := range branches {
		if b == branch {
			return true
		}
	}
	return false
}

func errDecorate(err error, deco string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, deco)
		return e
	}
	return err
}

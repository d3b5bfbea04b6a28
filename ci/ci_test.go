/*
 * ci_test.go, part of offkit.
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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	off "github.com/openffgo/offkit"
	"github.com/openffgo/offkit/toolkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkflow = `
name: CI
canonical_repo: openffgo/offkit
on:
  push:
    branches: [main]
  pull_request: {}
  schedule:
    - cron: "0 0 * * *"
matrix:
  os: [ubuntu-latest, macos-latest]
  runtime: [go1.21, go1.22]
  toolkits:
    rdkit: [true, false]
    openbabel: [true]
steps:
  - name: placeholder
    uses: run
    with:
      command: "true"
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	wf, err := Load(strings.NewReader(sampleWorkflow))
	require.NoError(t, err)
	assert.Equal(t, "CI", wf.Name)
	assert.Equal(t, []string{"main"}, wf.On.Push.Branches)
	assert.Len(t, wf.On.Schedule, 1)
	assert.False(t, wf.Matrix.FailFast)
}

func TestLoadRejectsBadWorkflows(t *testing.T) {
	cases := []struct {
		name   string
		mangle func(string) string
		want   string
	}{
		{"bad cron", func(s string) string { return strings.Replace(s, "0 0 * * *", "not a cron", 1) }, BadCron},
		{"fail-fast on", func(s string) string { return strings.Replace(s, "matrix:", "matrix:\n  fail-fast: true", 1) }, FailFastSet},
		{"schedule without canonical repo", func(s string) string { return strings.Replace(s, "canonical_repo: openffgo/offkit\n", "", 1) }, NoCanonicalRepo},
		{"empty matrix", func(s string) string { return strings.Replace(s, "os: [ubuntu-latest, macos-latest]", "os: []", 1) }, EmptyMatrix},
		{"step without implementation name", func(s string) string { return strings.Replace(s, "uses: run", "uses: \"\"", 1) }, NoStepImpl},
		{"empty toolkit axis", func(s string) string { return strings.Replace(s, "rdkit: [true, false]", "rdkit: []", 1) }, EmptyAxis},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(c.mangle(sampleWorkflow)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestExpand(t *testing.T) {
	wf, err := Load(strings.NewReader(sampleWorkflow))
	require.NoError(t, err)
	cells := wf.Matrix.Expand()
	//2 OS x 2 runtimes x 2 rdkit flags x 1 openbabel flag
	require.Len(t, cells, 8)
	ids := map[string]bool{}
	for _, c := range cells {
		assert.NotEmpty(t, c.ID)
		ids[c.ID] = true
		assert.Contains(t, c.Toolkits, "rdkit")
		assert.True(t, c.Toolkits["openbabel"])
	}
	assert.Len(t, ids, 8, "cell ids must be unique")
}

func TestShouldRun(t *testing.T) {
	wf, err := Load(strings.NewReader(sampleWorkflow))
	require.NoError(t, err)
	assert.True(t, wf.ShouldRun(Event{Kind: EventSchedule, Repo: "openffgo/offkit"}))
	assert.False(t, wf.ShouldRun(Event{Kind: EventSchedule, Repo: "somefork/offkit"}),
		"scheduled runs must stay on the canonical repository")
	assert.True(t, wf.ShouldRun(Event{Kind: EventPush, Branch: "main"}))
	assert.False(t, wf.ShouldRun(Event{Kind: EventPush, Branch: "feature"}))
	assert.True(t, wf.ShouldRun(Event{Kind: EventPullRequest, Branch: "anything"}))
}

const twoCellWorkflow = `
name: two cells
on:
  push: {}
matrix:
  os: [linux]
  runtime: [go1.21, go1.22]
steps:
  - name: before
    uses: before
  - name: explode
    uses: explode
  - name: after
    uses: after
`

//TestCellsAreIndependent checks both halves of the isolation story:
//a failing cell doesn't stop its sibling, and within the failing cell
//no step after the failure runs.
func TestCellsAreIndependent(t *testing.T) {
	wf, err := Load(strings.NewReader(twoCellWorkflow))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	var mu sync.Mutex
	ran := map[string][]string{} //step -> runtimes it ran in
	record := func(step string) StepImpl {
		return func(ctx context.Context, job *Job, with map[string]string) error {
			mu.Lock()
			ran[step] = append(ran[step], job.Cell.Runtime)
			mu.Unlock()
			return nil
		}
	}
	r.Register("before", record("before"))
	r.Register("after", record("after"))
	r.Register("explode", func(ctx context.Context, job *Job, with map[string]string) error {
		if job.Cell.Runtime == "go1.21" {
			return fmt.Errorf("synthetic failure")
		}
		return nil
	})
	err = r.Run(context.Background(), Event{Kind: EventPush})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 cells failed")
	assert.Contains(t, err.Error(), "go1.21")
	assert.ElementsMatch(t, []string{"go1.21", "go1.22"}, ran["before"], "both cells must start")
	assert.Equal(t, []string{"go1.22"}, ran["after"], "steps after a failure must not run in that cell, and the healthy cell must finish")
}

func testScript(t *testing.T) (command, logfile string) {
	t.Helper()
	dir := t.TempDir()
	logfile = filepath.Join(dir, "calls.log")
	command = filepath.Join(dir, "fakecmd")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\nexit 0\n", logfile)
	require.NoError(t, os.WriteFile(command, []byte(script), 0755))
	return command, logfile
}

func slowFlagWorkflow(command string) string {
	return fmt.Sprintf(`
name: tests
canonical_repo: openffgo/offkit
on:
  push: {}
  schedule:
    - cron: "0 0 * * *"
matrix:
  os: [linux]
  runtime: [go1.22]
steps:
  - name: tests
    uses: run-tests
    with:
      command: %q
      args: "-v"
      slow-flag: "--runslow"
`, command)
}

func TestSlowTestsOnlyOnSchedule(t *testing.T) {
	command, logfile := testScript(t)
	wf, err := Load(strings.NewReader(slowFlagWorkflow(command)))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventPush}))
	b, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Equal(t, "-v\n", string(b), "push runs must not get the slow flag")

	require.NoError(t, os.Remove(logfile))
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventSchedule, Repo: "openffgo/offkit"}))
	b, err = os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Equal(t, "-v --runslow\n", string(b), "scheduled runs must get the slow flag")
}

const guardWorkflow = `
name: guard
on:
  push: {}
matrix:
  os: [linux]
  runtime: [go1.22]
  toolkits:
    openbabel: [false]
steps:
  - name: guard
    uses: toolkit-guard
`

func TestToolkitGuardRemoves(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fakeobabel")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755))
	t.Setenv("PATH", dir)
	w := toolkit.NewOpenBabel()
	w.SetCommand("fakeobabel")
	require.True(t, w.Available())

	wf, err := Load(strings.NewReader(guardWorkflow))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	r.SetToolkit("openbabel", w)
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventPush}))
	//the removal is cell-local: the shared binding never changes
	assert.True(t, w.Available(), "removed toolkit must stay available outside the cell")
}

const isolationWorkflow = `
name: isolation
on:
  push: {}
matrix:
  os: [linux]
  runtime: [go1.22]
  toolkits:
    openbabel: [true, false]
steps:
  - name: stagger
    uses: stagger
  - name: guard
    uses: toolkit-guard
  - name: confirm
    uses: confirm
`

//TestGuardIsolatesCells runs a with-toolkit and a without-toolkit cell
//concurrently, forcing the without cell to do its removal before the
//sibling reaches its own guard: the cell that expects the toolkit must
//still find it.
func TestGuardIsolatesCells(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fakeobabel")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755))
	t.Setenv("PATH", dir)
	w := toolkit.NewOpenBabel()
	w.SetCommand("fakeobabel")
	require.True(t, w.Available())

	wf, err := Load(strings.NewReader(isolationWorkflow))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	r.SetToolkit("openbabel", w)
	removed := make(chan struct{})
	r.Register("stagger", func(ctx context.Context, job *Job, with map[string]string) error {
		if job.Cell.Toolkits["openbabel"] {
			<-removed //reach the guard only after the sibling removed its copy
		}
		return nil
	})
	var mu sync.Mutex
	saw := map[bool]bool{} //cell flag -> availability the cell observed
	r.Register("confirm", func(ctx context.Context, job *Job, with map[string]string) error {
		flag := job.Cell.Toolkits["openbabel"]
		mu.Lock()
		saw[flag] = job.Toolkits["openbabel"].Available()
		mu.Unlock()
		if !flag {
			close(removed)
		}
		return nil
	})
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventPush}))
	assert.True(t, saw[true], "the cell that expects the toolkit must keep it")
	assert.False(t, saw[false], "the cell without the toolkit must see it gone")
	assert.True(t, w.Available(), "the shared binding must stay untouched")
}

//unavailable is a Wrapper that is never there.
type unavailable struct{}

func (unavailable) Name() string                                { return "ghost" }
func (unavailable) Version() string                             { return "" }
func (unavailable) Available() bool                             { return false }
func (unavailable) ToSMILES(*off.Molecule) (string, error)      { return "", fmt.Errorf("no") }
func (unavailable) FromSMILES(string) (*off.Molecule, error)    { return nil, fmt.Errorf("no") }
func (unavailable) GenerateConformers(*off.Molecule, int) error { return fmt.Errorf("no") }
func (unavailable) PartialCharges(*off.Molecule, string) error  { return fmt.Errorf("no") }
func (unavailable) Matches(*off.Molecule, string) (bool, error) { return false, fmt.Errorf("no") }

const expectPresentWorkflow = `
name: guard
on:
  push: {}
matrix:
  os: [linux]
  runtime: [go1.22]
  toolkits:
    rdkit: [true]
steps:
  - name: guard
    uses: toolkit-guard
`

func TestToolkitGuardExpectsPresence(t *testing.T) {
	wf, err := Load(strings.NewReader(expectPresentWorkflow))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	r.SetToolkit("rdkit", unavailable{})
	err = r.Run(context.Background(), Event{Kind: EventPush})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rdkit unavailable but the cell expects it")
}

func TestSkippedEventRunsNothing(t *testing.T) {
	wf, err := Load(strings.NewReader(twoCellWorkflow))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	called := false
	impl := func(ctx context.Context, job *Job, with map[string]string) error {
		called = true
		return nil
	}
	r.Register("before", impl)
	r.Register("explode", impl)
	r.Register("after", impl)
	//the workflow has no schedule trigger at all
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventSchedule, Repo: "openffgo/offkit"}))
	assert.False(t, called, "a non-triggering event must not run any step")
}

func endToEndWorkflow(testcmd, uploadcmd, coverage string) string {
	return fmt.Sprintf(`
name: full cell
canonical_repo: openffgo/offkit
on:
  push: {}
  schedule:
    - cron: "0 0 * * *"
env:
  PACKAGE: offkit
matrix:
  os: [ubuntu-latest]
  runtime: [go1.22]
  toolkits:
    openbabel: [true]
    rdkit: [false]
steps:
  - name: license
    uses: provision-license
    with:
      toolkit: openbabel
      secret: OFFKIT_TEST_LICENSE
      path: %q
  - name: guard
    uses: toolkit-guard
  - name: tests
    uses: run-tests
    with:
      command: %q
      args: "-v"
      slow-flag: "--runslow"
  - name: coverage
    uses: upload-coverage
    with:
      command: %q
      file: %q
`, coverage+".lic", testcmd, uploadcmd, coverage)
}

//TestFullCell walks one cell through provisioning, the availability
//guard, the test run and the coverage upload.
func TestFullCell(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "fakeobabel")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	ob := toolkit.NewOpenBabel()
	ob.SetCommand("fakeobabel")
	require.True(t, ob.Available())

	coverage := filepath.Join(dir, "coverage.xml")
	testcmd, testlog := testScript(t)
	//the "test runner" also produces the coverage report
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\necho data > %q\nexit 0\n", testlog, coverage)
	require.NoError(t, os.WriteFile(testcmd, []byte(script), 0755))
	uploadcmd, uploadlog := testScript(t)

	t.Setenv("OFFKIT_TEST_LICENSE", "LICENSEDATA")
	wf, err := Load(strings.NewReader(endToEndWorkflow(testcmd, uploadcmd, coverage)))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	r.SetToolkit("openbabel", ob)
	r.SetToolkit("rdkit", unavailable{})

	require.NoError(t, r.Run(context.Background(), Event{Kind: EventPush}))
	b, err := os.ReadFile(testlog)
	require.NoError(t, err)
	assert.Equal(t, "-v\n", string(b), "push run must not carry the slow flag")
	b, err = os.ReadFile(uploadlog)
	require.NoError(t, err)
	assert.Contains(t, string(b), "-f "+coverage)
	lic, err := os.ReadFile(coverage + ".lic")
	require.NoError(t, err)
	assert.Equal(t, "LICENSEDATA", string(lic))
}

func notebooksWorkflow(manager, dir string) string {
	return fmt.Sprintf(`
name: examples
on:
  push: {}
matrix:
  os: [macos-latest]
  runtime: [go1.22]
  toolkits:
    rdkit: [false]
steps:
  - name: notebooks
    uses: notebooks
    with:
      manager: %q
      dir: %q
      ignore-without-rdkit: "*rdkit*"
`, manager, dir)
}

//TestNotebooksSkipGatedExamples checks that examples needing a
//toolkit stay out of cells that don't have it.
func TestNotebooksSkipGatedExamples(t *testing.T) {
	examples := t.TempDir()
	for _, nb := range []string{
		filepath.Join("plain_demo", "plain_demo.ipynb"),
		filepath.Join("rdkit_demo", "rdkit_demo.ipynb"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(examples, nb)), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(examples, nb), []byte("{}\n"), 0644))
	}
	manager, logfile := testScript(t)
	wf, err := Load(strings.NewReader(notebooksWorkflow(manager, examples)))
	require.NoError(t, err)
	r := NewRunner(wf, quietLogger())
	require.NoError(t, r.Run(context.Background(), Event{Kind: EventPush}))
	b, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "plain_demo.ipynb")
	assert.NotContains(t, string(b), "rdkit_demo.ipynb",
		"rdkit-gated examples must be ignored in cells without rdkit")
}

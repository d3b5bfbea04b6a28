/*
 * steps.go, part of offkit.
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
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openffgo/offkit/catalog"
	"github.com/openffgo/offkit/toolkit"
)

func (R *Runner) registerBuiltins() {
	R.Register("run", stepRun)
	R.Register("provision-license", stepProvisionLicense)
	R.Register("toolkit-guard", stepToolkitGuard)
	R.Register("run-tests", stepRunTests)
	R.Register("catalog-check", stepCatalogCheck)
	R.Register("notebooks", stepNotebooks)
	R.Register("upload-coverage", stepUploadCoverage)
}

//command runs an external program with the job environment on top of
//the process environment, logging its output line count rather than
//the output itself.
func command(ctx context.Context, job *Job, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()
	for k, v := range job.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var out, errout strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errout
	if err := cmd.Run(); err != nil {
		return Error{message: fmt.Sprintf("%s %s: %s: %s", name, strings.Join(args, " "), err.Error(), strings.TrimSpace(errout.String()))}
	}
	job.Log.Debug("command finished", "command", name, "stdout_lines", strings.Count(out.String(), "\n"))
	return nil
}

//stepRun executes with["command"] with space-separated with["args"].
func stepRun(ctx context.Context, job *Job, with map[string]string) error {
	name := with["command"]
	if name == "" {
		return Error{message: "run step needs a command"}
	}
	return command(ctx, job, name, strings.Fields(with["args"])...)
}

//stepProvisionLicense materializes a vendor license from the
//environment variable with["secret"] into with["path"] and verifies
//it. Cells whose matrix flag for with["toolkit"] is false skip the
//step: a deliberately absent toolkit needs no license.
func stepProvisionLicense(ctx context.Context, job *Job, with map[string]string) error {
	if name := with["toolkit"]; name != "" && !job.Cell.Toolkits[name] {
		job.Log.Info("license not provisioned, toolkit flagged off", "toolkit", name)
		return nil
	}
	secret := with["secret"]
	path := with["path"]
	if secret == "" || path == "" {
		return Error{message: "provision-license needs secret and path"}
	}
	data := os.Getenv(secret)
	if data == "" {
		return Error{message: "license secret " + secret + " is empty or unset"}
	}
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return Error{message: "could not write license: " + err.Error(), filename: path}
	}
	return toolkit.CheckLicense(path)
}

//stepToolkitGuard enforces the cell's availability flags. A toolkit
//flagged off that is present gets force-removed from this cell only:
//the cell's binding is replaced with a copy that can't find its
//command, and sibling cells keep theirs. After that, any disagreement
//between a flag and reality fails the cell, naming the toolkit and the
//direction of the mismatch.
func stepToolkitGuard(ctx context.Context, job *Job, with map[string]string) error {
	names := make([]string, 0, len(job.Cell.Toolkits))
	for name := range job.Cell.Toolkits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := job.Cell.Toolkits[name]
		w, ok := job.Toolkits[name]
		if !ok {
			return Error{message: "no backend bound to matrix axis " + name}
		}
		if !want && w.Available() {
			hidden, err := toolkit.ForceRemove(w)
			if err != nil {
				return Error{message: "could not remove " + name + ": " + err.Error()}
			}
			job.Toolkits[name] = hidden
			w = hidden
			job.Log.Info("toolkit force-removed", "toolkit", name)
		}
		if got := w.Available(); got != want {
			if want {
				return Error{message: "toolkit " + name + " unavailable but the cell expects it"}
			}
			return Error{message: "toolkit " + name + " unexpectedly present after removal"}
		}
	}
	return nil
}

//stepRunTests runs the test suite command. The slow tests only run on
//scheduled events: with["slow-flag"] is appended to the arguments when
//the run was started by the schedule, and never otherwise.
func stepRunTests(ctx context.Context, job *Job, with map[string]string) error {
	name := with["command"]
	if name == "" {
		return Error{message: "run-tests step needs a command"}
	}
	args := strings.Fields(with["args"])
	if slow := with["slow-flag"]; slow != "" && job.Event.Kind == EventSchedule {
		args = append(args, slow)
	}
	return command(ctx, job, name, args...)
}

//stepCatalogCheck compares the example catalog in with["list"] (one
//example per line, '#' comments allowed) against the directory
//with["dir"].
func stepCatalogCheck(ctx context.Context, job *Job, with map[string]string) error {
	list := with["list"]
	dir := with["dir"]
	if list == "" || dir == "" {
		return Error{message: "catalog-check needs list and dir"}
	}
	b, err := os.ReadFile(list)
	if err != nil {
		return Error{message: UnableToOpen + ": " + err.Error(), filename: list}
	}
	listed := []string{}
	for _, line := range strings.Split(string(b), "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			listed = append(listed, line)
		}
	}
	return catalog.Check(listed, dir)
}

//stepNotebooks runs every notebook under with["dir"] through a shared
//environment. Notebooks matching with["ignore"] (comma-separated
//globs) are skipped, as are those matching with["ignore-without-X"]
//in cells where the matrix flag X is false; that is how examples that
//need a licensed toolkit stay out of the toolkit-less cells.
func stepNotebooks(ctx context.Context, job *Job, with map[string]string) error {
	dir := with["dir"]
	if dir == "" {
		return Error{message: "notebooks step needs dir"}
	}
	env := catalog.NewEnv(with["manager"], with["env"])
	h := catalog.NewHarness(env)
	if ig := with["ignore"]; ig != "" {
		h.Ignore = append(h.Ignore, strings.Split(ig, ",")...)
	}
	for name, present := range job.Cell.Toolkits {
		if present {
			continue
		}
		if ig := with["ignore-without-"+name]; ig != "" {
			h.Ignore = append(h.Ignore, strings.Split(ig, ",")...)
		}
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*", "*.ipynb"))
	if err != nil {
		return Error{message: err.Error(), filename: dir}
	}
	sort.Strings(paths)
	notebooks := make([]catalog.Notebook, len(paths))
	for i, p := range paths {
		requires, err := catalog.Requirements(filepath.Dir(p))
		if err != nil {
			return err
		}
		notebooks[i] = catalog.Notebook{Path: p, Requires: requires}
	}
	return h.RunAll(ctx, notebooks)
}

//stepUploadCoverage pushes the coverage report. The step is not
//best-effort: a failed upload fails the whole job.
func stepUploadCoverage(ctx context.Context, job *Job, with map[string]string) error {
	name := with["command"]
	if name == "" {
		return Error{message: "upload-coverage step needs a command"}
	}
	args := strings.Fields(with["args"])
	if f := with["file"]; f != "" {
		if _, err := os.Stat(f); err != nil {
			return Error{message: "coverage report missing", filename: f}
		}
		args = append(args, "-f", f)
	}
	return command(ctx, job, name, args...)
}

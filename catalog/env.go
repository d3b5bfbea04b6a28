/*
 * env.go, part of offkit.
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

package catalog

import (
	"context"
	"os/exec"
	"strings"
)

//Env drives the package manager that holds the example environment.
//The default is conda, where the examples actually live; anything with
//a compatible command line (mamba, micromamba) works through
//SetCommand.
type Env struct {
	command string
	name    string //environment name; empty means the active one
	updated bool
}

//NewEnv returns an Env managed by the given command, operating on the
//named environment.
func NewEnv(command, name string) *Env {
	if command == "" {
		command = "conda"
	}
	return &Env{command: command, name: name}
}

//SetCommand sets the package-manager binary to be used.
func (E *Env) SetCommand(name string) {
	E.command = name
}

func (E *Env) Command() string { return E.command }

//run invokes a subcommand, routing it to the named environment.
func (E *Env) run(ctx context.Context, sub string, args ...string) (string, error) {
	full := []string{sub}
	if E.name != "" {
		full = append(full, "-n", E.name)
	}
	full = append(full, args...)
	cmd := exec.CommandContext(ctx, E.command, full...)
	var out, errout strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errout
	if err := cmd.Run(); err != nil {
		return "", Error{message: E.command + " " + strings.Join(full, " ") + " failed: " + err.Error() + ": " + strings.TrimSpace(errout.String()), deco: []string{"run"}}
	}
	return out.String(), nil
}

//Update brings every package in the environment up to date. It runs at
//most once per Env; later calls are no-ops.
func (E *Env) Update(ctx context.Context) error {
	if E.updated {
		return nil
	}
	if _, err := E.run(ctx, "update", "--all", "--yes"); err != nil {
		return errDecorate(err, "Update")
	}
	E.updated = true
	return nil
}

//Install adds packages to the environment. The first installation in
//the life of the Env updates the whole environment first, so the new
//packages land on current versions instead of whatever the base image
//froze.
func (E *Env) Install(ctx context.Context, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	if err := E.Update(ctx); err != nil {
		return errDecorate(err, "Install")
	}
	args := append([]string{"--yes"}, pkgs...)
	if _, err := E.run(ctx, "install", args...); err != nil {
		return errDecorate(err, "Install")
	}
	return nil
}

//Run executes a program inside the environment and returns its
//standard output.
func (E *Env) Run(ctx context.Context, program string, args ...string) (string, error) {
	full := append([]string{program}, args...)
	out, err := E.run(ctx, "run", full...)
	if err != nil {
		return "", errDecorate(err, "Run")
	}
	return out, nil
}

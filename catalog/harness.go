/*
 * harness.go, part of offkit.
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
	"path/filepath"
)

//Notebook is one executable example: the .ipynb file plus whatever
//packages it needs on top of the base environment.
type Notebook struct {
	Path     string
	Requires []string
}

//Harness executes notebooks in one shared environment. There is no
//isolation between notebooks, deliberately: packages installed for an
//earlier notebook stay installed for the later ones, exactly as they
//do in the CI job, so an example that silently depends on a sibling's
//requirements fails here too when run on its own.
type Harness struct {
	env       *Env
	installed map[string]bool
	Ignore    []string //glob patterns of notebooks to skip
}

//NewHarness returns a Harness running notebooks inside env.
func NewHarness(env *Env) *Harness {
	return &Harness{env: env, installed: map[string]bool{}}
}

//skip reports whether the notebook matches any of the ignore globs.
//The patterns match against the base name and against the full path.
func (H *Harness) skip(path string) bool {
	for _, patt := range H.Ignore {
		if ok, _ := filepath.Match(patt, filepath.Base(path)); ok {
			return true
		}
		if ok, _ := filepath.Match(patt, path); ok {
			return true
		}
	}
	return false
}

//RunOne installs the notebook's requirements (those not already in
//the environment from earlier notebooks) and executes it in place.
func (H *Harness) RunOne(ctx context.Context, nb Notebook) error {
	missing := []string{}
	for _, pkg := range nb.Requires {
		if !H.installed[pkg] {
			missing = append(missing, pkg)
		}
	}
	if err := H.env.Install(ctx, missing...); err != nil {
		return Error{message: err.Error(), filename: nb.Path, deco: []string{"RunOne"}}
	}
	for _, pkg := range missing {
		H.installed[pkg] = true
	}
	_, err := H.env.Run(ctx, "jupyter", "nbconvert", "--to", "notebook", "--execute", "--inplace", nb.Path)
	if err != nil {
		return Error{message: err.Error(), filename: nb.Path, deco: []string{"RunOne"}}
	}
	return nil
}

//RunAll executes the notebooks one after another, in the order given.
//The first failure stops the run and is returned naming the notebook;
//the environment keeps whatever was installed up to that point.
func (H *Harness) RunAll(ctx context.Context, notebooks []Notebook) error {
	for _, nb := range notebooks {
		if H.skip(nb.Path) {
			continue
		}
		if err := H.RunOne(ctx, nb); err != nil {
			return errDecorate(err, "RunAll")
		}
	}
	return nil
}

/*
 * install.go, part of offkit.
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
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//environmentFile is the per-example dependency declaration.
const environmentFile = "environment.yaml"

type environment struct {
	Name         string        `yaml:"name"`
	Dependencies []interface{} `yaml:"dependencies"`
}

//Requirements reads the packages an example declares in its
//environment.yaml. An example without one needs nothing beyond the
//base environment. Nested entries (pip sub-lists and the like) are
//ignored: only plain package names go through the Env runner.
func Requirements(dir string) ([]string, error) {
	b, err := os.ReadFile(filepath.Join(dir, environmentFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, Error{message: err.Error(), filename: filepath.Join(dir, environmentFile), deco: []string{"Requirements"}}
	}
	env := new(environment)
	if err := yaml.Unmarshal(b, env); err != nil {
		return nil, Error{message: "Malformed environment file: " + err.Error(), filename: filepath.Join(dir, environmentFile), deco: []string{"Requirements"}}
	}
	pkgs := []string{}
	for _, d := range env.Dependencies {
		if s, ok := d.(string); ok {
			pkgs = append(pkgs, s)
		}
	}
	return pkgs, nil
}

//Install copies the example at src into dest and installs its declared
//dependencies into the environment. This is what "installing an
//example" means to the catalog: afterwards the user has an editable
//copy whose notebooks actually run.
func Install(ctx context.Context, src, dest string, env *Env) error {
	if err := copyTree(src, dest); err != nil {
		return errDecorate(err, "Install")
	}
	pkgs, err := Requirements(src)
	if err != nil {
		return errDecorate(err, "Install")
	}
	if err := env.Install(ctx, pkgs...); err != nil {
		return errDecorate(err, "Install")
	}
	return nil
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return Error{message: err.Error(), filename: path, deco: []string{"copyTree"}}
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return Error{message: err.Error(), filename: path, deco: []string{"copyTree"}}
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		in, err := os.Open(path)
		if err != nil {
			return Error{message: UnableToOpen, filename: path, deco: []string{"copyTree"}}
		}
		defer in.Close()
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return Error{message: UnableToOpen, filename: target, deco: []string{"copyTree"}}
		}
		defer out.Close()
		if _, err := io.Copy(out, in); err != nil {
			return Error{message: err.Error(), filename: target, deco: []string{"copyTree"}}
		}
		return nil
	})
}

/*
 * registry.go, part of offkit.
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

package toolkit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	off "github.com/openffgo/offkit"
)

//Registry holds backends in order of precedence. Operations are
//resolved by trying each registered backend in order; a backend that
//returns NotImplemented, or fails, is recorded and the next one is
//tried. When none succeeds the returned error lists every backend
//tried and what it said, so a mismatch between the environment and
//the expectation surfaces with its cause.
type Registry struct {
	wrappers []Wrapper
}

//NewRegistry builds a registry from the given precedence list. When
//errIfUnavailable is true an unavailable backend aborts the build;
//otherwise it is skipped with a logged warning, which is what the
//default registry does.
func NewRegistry(precedence []Wrapper, errIfUnavailable bool) (*Registry, error) {
	r := new(Registry)
	for _, w := range precedence {
		if err := r.Register(w, errIfUnavailable); err != nil {
			return nil, errDecorateToolkit(err, "NewRegistry")
		}
	}
	return r, nil
}

//Default returns the registry with every supported backend that is
//actually present, in the standard precedence order: RDKit, Open
//Babel, built-in.
func Default() *Registry {
	r, _ := NewRegistry([]Wrapper{NewRDKit(), NewOpenBabel(), NewBuiltin()}, false)
	return r
}

//Register appends a backend. Unavailable backends are rejected with an
//Unavailable error or skipped with a warning, depending on
//errIfUnavailable.
func (R *Registry) Register(w Wrapper, errIfUnavailable bool) error {
	if !w.Available() {
		if errIfUnavailable {
			return Error{message: Unavailable, toolkit: w.Name(), deco: []string{"Register"}}
		}
		log.Printf("offkit/toolkit: skipping unavailable backend %s", w.Name())
		return nil
	}
	R.wrappers = append(R.wrappers, w)
	return nil
}

//Deregister removes the backend with the given name.
func (R *Registry) Deregister(name string) error {
	for i, w := range R.wrappers {
		if w.Name() == name {
			R.wrappers = append(R.wrappers[:i], R.wrappers[i+1:]...)
			return nil
		}
	}
	return Error{message: NotRegistered, toolkit: name, deco: []string{"Deregister"}}
}

//Wrappers returns the registered backends in precedence order.
func (R *Registry) Wrappers() []Wrapper {
	return R.wrappers
}

//Find returns the registered backend with the given name, or nil.
func (R *Registry) Find(name string) Wrapper {
	for _, w := range R.wrappers {
		if w.Name() == name {
			return w
		}
	}
	return nil
}

//Versions maps the name of each registered backend to its version.
func (R *Registry) Versions() map[string]string {
	v := map[string]string{}
	for _, w := range R.wrappers {
		v[w.Name()] = w.Version()
	}
	return v
}

//callErr builds the "every backend failed" error.
func (R *Registry) callErr(op string, tried []string) error {
	if len(R.wrappers) == 0 {
		return Error{message: Unavailable + ": registry is empty", deco: []string{op}}
	}
	return Error{message: fmt.Sprintf("No registered toolkit could do %s: %s", op, strings.Join(tried, "; ")), deco: []string{op}}
}

//ToSMILES resolves through the registered backends.
func (R *Registry) ToSMILES(mol *off.Molecule) (string, error) {
	tried := make([]string, 0, len(R.wrappers))
	for _, w := range R.wrappers {
		s, err := w.ToSMILES(mol)
		if err == nil {
			return s, nil
		}
		tried = append(tried, w.Name()+": "+err.Error())
	}
	return "", R.callErr("ToSMILES", tried)
}

//FromSMILES resolves through the registered backends.
func (R *Registry) FromSMILES(smiles string) (*off.Molecule, error) {
	tried := make([]string, 0, len(R.wrappers))
	for _, w := range R.wrappers {
		mol, err := w.FromSMILES(smiles)
		if err == nil {
			return mol, nil
		}
		tried = append(tried, w.Name()+": "+err.Error())
	}
	return nil, R.callErr("FromSMILES", tried)
}

//GenerateConformers resolves through the registered backends.
func (R *Registry) GenerateConformers(mol *off.Molecule, n int) error {
	tried := make([]string, 0, len(R.wrappers))
	for _, w := range R.wrappers {
		err := w.GenerateConformers(mol, n)
		if err == nil {
			return nil
		}
		tried = append(tried, w.Name()+": "+err.Error())
	}
	return R.callErr("GenerateConformers", tried)
}

//PartialCharges resolves through the registered backends.
func (R *Registry) PartialCharges(mol *off.Molecule, method string) error {
	tried := make([]string, 0, len(R.wrappers))
	for _, w := range R.wrappers {
		err := w.PartialCharges(mol, method)
		if err == nil {
			return nil
		}
		tried = append(tried, w.Name()+": "+err.Error())
	}
	return R.callErr("PartialCharges", tried)
}

//Matches resolves through the registered backends.
func (R *Registry) Matches(mol *off.Molecule, pattern string) (bool, error) {
	tried := make([]string, 0, len(R.wrappers))
	for _, w := range R.wrappers {
		ok, err := w.Matches(mol, pattern)
		if err == nil {
			return ok, nil
		}
		tried = append(tried, w.Name()+": "+err.Error())
	}
	return false, R.callErr("Matches", tried)
}

//ForceRemove returns a copy of the backend that cannot resolve its
//external command, so it reports itself unavailable even though the
//package is still installed. The backend itself, and the machine, are
//left alone: anyone else holding the original wrapper keeps a working
//toolkit. Only backends driven through an external command can be
//removed; everything else (notably the built-in backend) can't.
func ForceRemove(w Wrapper) (Wrapper, error) {
	c, ok := w.(Commander)
	if !ok {
		return nil, Error{message: "Backend is not command-driven, can't be removed", toolkit: w.Name(), deco: []string{"ForceRemove"}}
	}
	dir, err := os.MkdirTemp("", "offkit-removed")
	if err != nil {
		return nil, Error{message: "Could not make a scratch dir: " + err.Error(), toolkit: w.Name(), deco: []string{"ForceRemove"}}
	}
	//the scratch dir is empty, so the command can't resolve there
	return c.WithCommand(filepath.Join(dir, filepath.Base(c.Command()))), nil
}

/*
 * wrapper.go, part of offkit.
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
	"os"

	off "github.com/openffgo/offkit"
)

//Wrapper is the minimal interface every backend provides. A backend
//that doesn't support an operation returns a NotImplemented error for
//it, so the registry can keep trying backends of lower precedence.
type Wrapper interface {

	//Name returns the human-readable backend name.
	Name() string

	//Version returns the backend version, or the empty string if the
	//backend is not available.
	Version() string

	//Available returns whether the backend can actually be used right
	//now (binary on PATH, module importable, license in place).
	Available() bool

	//ToSMILES returns the canonical isomeric SMILES of the molecule.
	ToSMILES(mol *off.Molecule) (string, error)

	//FromSMILES builds a molecule (topology only, no conformers)
	//from a SMILES string.
	FromSMILES(smiles string) (*off.Molecule, error)

	//GenerateConformers adds up to n conformers to the molecule.
	GenerateConformers(mol *off.Molecule, n int) error

	//PartialCharges computes per-atom partial charges with the given
	//method and stores them in the molecule.
	PartialCharges(mol *off.Molecule, method string) error

	//Matches reports whether the molecule matches the given SMARTS
	//pattern.
	Matches(mol *off.Molecule, pattern string) (bool, error)
}

//Commander is implemented by backends that are driven through an
//external command. WithCommand returns a fresh backend of the same
//kind driven by the named command, leaving the receiver alone; the
//availability guard uses it to build copies it can take away without
//touching anyone else's.
type Commander interface {
	Command() string
	WithCommand(name string) Wrapper
}

//Error is the concrete error type of the toolkit package.
type Error struct {
	message string
	toolkit string //the backend involved, or empty
	deco    []string
}

func (err Error) Error() string {
	if err.toolkit == "" {
		return fmt.Sprintf("toolkit error: %s", err.message)
	}
	return fmt.Sprintf("toolkit %s error: %s", err.toolkit, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Toolkit returns the backend the error refers to.
func (err Error) Toolkit() string { return err.toolkit }

const (
	Unavailable    = "Toolkit not available"
	NotImplemented = "Operation not implemented by this toolkit"
	NotRegistered  = "Toolkit not found in registry"
	RunFailed      = "Toolkit command failed"
	BadOutput      = "Could not parse toolkit output"
	NoLicense      = "License file missing or unreadable"
)

//IsNotImplemented tells apart "this backend can't do that" from real
//failures, so callers can fall through to the next backend.
func IsNotImplemented(err error) bool {
	e, ok := err.(Error)
	return ok && e.message == NotImplemented
}

//IsUnavailable reports whether err is an availability error.
func IsUnavailable(err error) bool {
	e, ok := err.(Error)
	return ok && e.message == Unavailable
}

func notImplemented(toolkit, op string) error {
	return Error{message: NotImplemented, toolkit: toolkit, deco: []string{op}}
}

//CheckLicense returns a NoLicense error if the license file at path is
//missing or empty. Backends that need a vendor license call this before
//reporting themselves available; the CI provision step calls it right
//after materializing the license from a secret.
func CheckLicense(path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		return Error{message: NoLicense + ": " + path, deco: []string{"CheckLicense"}}
	}
	return nil
}

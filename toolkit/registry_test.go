/*
 * registry_test.go, part of offkit.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	off "github.com/openffgo/offkit"
)

//fake is a scriptable backend for registry tests.
type fake struct {
	name      string
	available bool
	smiles    string //what ToSMILES returns; empty means NotImplemented
	calls     int
}

func (F *fake) Name() string    { return F.name }
func (F *fake) Version() string { return "0.0-test" }
func (F *fake) Available() bool { return F.available }

func (F *fake) ToSMILES(mol *off.Molecule) (string, error) {
	F.calls++
	if F.smiles == "" {
		return "", notImplemented(F.name, "ToSMILES")
	}
	return F.smiles, nil
}

func (F *fake) FromSMILES(smiles string) (*off.Molecule, error) {
	return nil, notImplemented(F.name, "FromSMILES")
}

func (F *fake) GenerateConformers(mol *off.Molecule, n int) error {
	return notImplemented(F.name, "GenerateConformers")
}

func (F *fake) PartialCharges(mol *off.Molecule, method string) error {
	return notImplemented(F.name, "PartialCharges")
}

func (F *fake) Matches(mol *off.Molecule, pattern string) (bool, error) {
	return false, notImplemented(F.name, "Matches")
}

func testMol(Te *testing.T) *off.Molecule {
	Te.Helper()
	top, err := off.NewTopology([]*off.Atom{{Symbol: "C", Number: 6}}, 0, 1)
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := off.NewMolecule(top, nil)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestRegistryPrecedence(Te *testing.T) {
	first := &fake{name: "first", available: true, smiles: "C"}
	second := &fake{name: "second", available: true, smiles: "CC"}
	reg, err := NewRegistry([]Wrapper{first, second}, true)
	if err != nil {
		Te.Fatal(err)
	}
	s, err := reg.ToSMILES(testMol(Te))
	if err != nil {
		Te.Fatal(err)
	}
	if s != "C" {
		Te.Errorf("got SMILES from the wrong backend: %s", s)
	}
	if second.calls != 0 {
		Te.Error("lower-precedence backend was called although the first succeeded")
	}
}

func TestRegistryFallsThrough(Te *testing.T) {
	cant := &fake{name: "cant", available: true} //NotImplemented for everything
	can := &fake{name: "can", available: true, smiles: "O"}
	reg, err := NewRegistry([]Wrapper{cant, can}, true)
	if err != nil {
		Te.Fatal(err)
	}
	s, err := reg.ToSMILES(testMol(Te))
	if err != nil {
		Te.Fatal(err)
	}
	if s != "O" {
		Te.Errorf("fallthrough returned %q", s)
	}
	if cant.calls != 1 {
		Te.Error("higher-precedence backend was skipped")
	}
}

func TestRegistryAccumulatesFailures(Te *testing.T) {
	a := &fake{name: "alpha", available: true}
	b := &fake{name: "beta", available: true}
	reg, err := NewRegistry([]Wrapper{a, b}, true)
	if err != nil {
		Te.Fatal(err)
	}
	_, err = reg.ToSMILES(testMol(Te))
	if err == nil {
		Te.Fatal("expected an error when no backend can do the operation")
	}
	msg := err.Error()
	for _, name := range []string{"alpha", "beta"} {
		if !strings.Contains(msg, name) {
			Te.Errorf("error does not mention the tried backend %s: %s", name, msg)
		}
	}
}

func TestRegisterUnavailable(Te *testing.T) {
	gone := &fake{name: "gone", available: false}
	_, err := NewRegistry([]Wrapper{gone}, true)
	if err == nil {
		Te.Fatal("expected an Unavailable error")
	}
	if !IsUnavailable(err) {
		Te.Errorf("wrong error kind: %v", err)
	}
	//with errIfUnavailable false the backend is just skipped
	reg, err := NewRegistry([]Wrapper{gone, &fake{name: "here", available: true}}, false)
	if err != nil {
		Te.Fatal(err)
	}
	if len(reg.Wrappers()) != 1 || reg.Find("gone") != nil {
		Te.Error("unavailable backend was not skipped")
	}
}

func TestDeregister(Te *testing.T) {
	reg, err := NewRegistry([]Wrapper{&fake{name: "a", available: true}, &fake{name: "b", available: true}}, true)
	if err != nil {
		Te.Fatal(err)
	}
	if err := reg.Deregister("a"); err != nil {
		Te.Fatal(err)
	}
	if reg.Find("a") != nil || reg.Find("b") == nil {
		Te.Error("wrong backend removed")
	}
	err = reg.Deregister("nope")
	if err == nil {
		Te.Fatal("expected a NotRegistered error")
	}
	if e, ok := err.(Error); !ok || e.message != NotRegistered {
		Te.Errorf("wrong error: %v", err)
	}
}

func TestVersions(Te *testing.T) {
	reg, err := NewRegistry([]Wrapper{&fake{name: "a", available: true}, &fake{name: "b", available: true}}, true)
	if err != nil {
		Te.Fatal(err)
	}
	v := reg.Versions()
	if len(v) != 2 || v["a"] != "0.0-test" || v["b"] != "0.0-test" {
		Te.Errorf("bad versions map: %v", v)
	}
}

func TestBuiltinCharges(Te *testing.T) {
	ats := []*off.Atom{
		{Symbol: "N", Number: 7, FormalCharge: 1},
		{Symbol: "Cl", Number: 17, FormalCharge: -1},
	}
	top, err := off.NewTopology(ats, 0, 1)
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := off.NewMolecule(top, nil)
	if err != nil {
		Te.Fatal(err)
	}
	b := NewBuiltin()
	if err := b.PartialCharges(mol, "formal_charge"); err != nil {
		Te.Fatal(err)
	}
	if mol.Atom(0).PartialCharge != 1 || mol.Atom(1).PartialCharge != -1 {
		Te.Error("formal_charge method did not copy formal charges")
	}
	if err := b.PartialCharges(mol, "zeros"); err != nil {
		Te.Fatal(err)
	}
	if mol.TotalPartialCharge() != 0 {
		Te.Error("zeros method left residual charge")
	}
	err = b.PartialCharges(mol, "am1bcc")
	if !IsNotImplemented(err) {
		Te.Errorf("unsupported method should be NotImplemented, got %v", err)
	}
}

func TestForceRemoveNotCommandDriven(Te *testing.T) {
	_, err := ForceRemove(NewBuiltin())
	if err == nil {
		Te.Fatal("the built-in backend must not be removable")
	}
}

func TestForceRemoveHidesCommand(Te *testing.T) {
	dir := Te.TempDir()
	bin := filepath.Join(dir, "fakeobabel")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		Te.Fatal(err)
	}
	Te.Setenv("PATH", dir)
	w := NewOpenBabel()
	w.SetCommand("fakeobabel")
	if !w.Available() {
		Te.Fatal("test command should be on PATH")
	}
	hidden, err := ForceRemove(w)
	if err != nil {
		Te.Fatal(err)
	}
	if hidden.Available() {
		Te.Error("removed copy still available")
	}
	if !w.Available() {
		Te.Error("removal must not touch the original backend")
	}
}

func TestCheckLicense(Te *testing.T) {
	dir := Te.TempDir()
	missing := filepath.Join(dir, "none.lic")
	if err := CheckLicense(missing); err == nil {
		Te.Error("missing license accepted")
	}
	empty := filepath.Join(dir, "empty.lic")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		Te.Fatal(err)
	}
	if err := CheckLicense(empty); err == nil {
		Te.Error("empty license accepted")
	}
	good := filepath.Join(dir, "good.lic")
	if err := os.WriteFile(good, []byte("LICENSEDATA"), 0644); err != nil {
		Te.Fatal(err)
	}
	if err := CheckLicense(good); err != nil {
		Te.Errorf("valid license rejected: %v", err)
	}
}

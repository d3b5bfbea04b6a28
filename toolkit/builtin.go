/*
 * builtin.go, part of offkit.
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
	off "github.com/openffgo/offkit"
)

//Builtin is the native backend. It is always available and supports
//almost nothing: its purpose is to hold the trivial operations (and
//only those) so a machine with no real backend still works for file
//IO and bookkeeping. Anything resembling chemical perception returns
//NotImplemented on purpose.
type Builtin struct{}

func NewBuiltin() *Builtin { return &Builtin{} }

func (B *Builtin) Name() string    { return "Built-in Toolkit" }
func (B *Builtin) Version() string { return "offkit" }

//The built-in backend is part of this module, so it's always there.
func (B *Builtin) Available() bool { return true }

func (B *Builtin) ToSMILES(mol *off.Molecule) (string, error) {
	//The builtin can only echo an identifier some real backend set before.
	if mol.SMILES != "" {
		return mol.SMILES, nil
	}
	return "", notImplemented(B.Name(), "ToSMILES")
}

func (B *Builtin) FromSMILES(smiles string) (*off.Molecule, error) {
	return nil, notImplemented(B.Name(), "FromSMILES")
}

func (B *Builtin) GenerateConformers(mol *off.Molecule, n int) error {
	return notImplemented(B.Name(), "GenerateConformers")
}

//PartialCharges supports two methods: "zeros", and "formal_charge",
//which just spreads each atom's formal charge as its partial charge.
func (B *Builtin) PartialCharges(mol *off.Molecule, method string) error {
	q := make([]float64, mol.Len())
	switch method {
	case "zeros":
		//already zeroed
	case "formal_charge":
		for i, at := range mol.Atoms {
			q[i] = float64(at.FormalCharge)
		}
	default:
		return Error{message: NotImplemented, toolkit: B.Name(), deco: []string{"PartialCharges: method " + method}}
	}
	err := mol.SetPartialCharges(q)
	if err != nil {
		return Error{message: err.Error(), toolkit: B.Name(), deco: []string{"PartialCharges"}}
	}
	return nil
}

func (B *Builtin) Matches(mol *off.Molecule, pattern string) (bool, error) {
	return false, notImplemented(B.Name(), "Matches")
}

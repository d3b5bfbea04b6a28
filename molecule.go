/*
 * molecule.go, part of offkit.
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

package off

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

/**Note: Several functions here panic instead of returning errors. Those are "fundamental"
 * functions (accessors, mostly). If something goes wrong in them the program is way-most
 * likely wrong anyway and should crash.**/

//Atom contains the static information for one atom: everything except
//the coordinates, which belong to the conformers of a Molecule.
type Atom struct {
	Name          string
	Index         int //zero-based position in the Topology
	Symbol        string
	Number        int //atomic number
	Mass          float64
	FormalCharge  int
	PartialCharge float64
	Aromatic      bool
	Stereo        string //R, S, E, Z or empty
	Bonds         []*Bond
}

//Atom methods

//Copy returns a copy of the Atom object. Bonds are not copied,
//as they belong to the parent molecule.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	Newat.Name = A.Name
	Newat.Index = A.Index
	Newat.Symbol = A.Symbol
	Newat.Number = A.Number
	Newat.Mass = A.Mass
	Newat.FormalCharge = A.FormalCharge
	Newat.PartialCharge = A.PartialCharge
	Newat.Aromatic = A.Aromatic
	Newat.Stereo = A.Stereo
	return Newat
}

//Heavy returns true if the atom is not a hydrogen.
func (A *Atom) Heavy() bool {
	return A.Number != 1
}

//Metal returns true if the atom is one of the metals in the
//element tables.
func (A *Atom) Metal() bool {
	return symbolMetal[A.Symbol]
}

//Valence returns the number of bonds of the atom, counting bond
//orders (an aromatic bond counts as its integer order).
func (A *Atom) Valence() int {
	v := 0
	for _, b := range A.Bonds {
		v += b.Order
	}
	return v
}

/*****Topology type***/

//Topology contains the information about a molecule which is not expected
//to change in time, i.e. everything except coordinates and partial charges.
type Topology struct {
	Atoms    []*Atom
	charge   int
	multi    int
	bonds    []*Bond
	nextBond int
}

//NewTopology makes a topology from the given atoms, total charge and
//multiplicity. It returns an error if the atom slice is nil. It doesn't
//check consistency of the charge or multiplicity.
func NewTopology(ats []*Atom, charge, multi int) (*Topology, error) {
	if ats == nil {
		return nil, CError{msg: "Supplied a nil atom slice", deco: []string{"NewTopology"}}
	}
	top := new(Topology)
	top.Atoms = ats
	top.charge = charge
	top.multi = multi
	for i, at := range top.Atoms {
		at.Index = i
	}
	return top, nil
}

/*Topology methods*/

//Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

//Multi returns the multiplicity of the topology
func (T *Topology) Multi() int {
	return T.multi
}

//SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

//SetMulti sets the multiplicity of the topology to i
func (T *Topology) SetMulti(i int) {
	T.multi = i
}

//Atom returns the Atom corresponding to the index i of the Atom slice
//in the Topology. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//Bonds returns the bonds of the topology, in the order they were added.
func (T *Topology) Bonds() []*Bond {
	return T.bonds
}

//NewBond bonds the atoms with indexes i and j with a bond of the given
//order, adds the bond to both atoms and to the topology, and returns it.
//Panics if either index is out of range. Returns an error if the atoms
//are already bonded or i==j.
func (T *Topology) NewBond(i, j, order int) (*Bond, error) {
	if i == j {
		return nil, CError{msg: fmt.Sprintf("Can't bond atom %d to itself", i), deco: []string{"NewBond"}}
	}
	at1 := T.Atom(i)
	at2 := T.Atom(j)
	for _, b := range at1.Bonds {
		if b.Cross(at1) == at2 {
			return nil, CError{msg: fmt.Sprintf("Atoms %d and %d are already bonded", i, j), deco: []string{"NewBond"}}
		}
	}
	b := &Bond{Index: T.nextBond, At1: at1, At2: at2, Order: order}
	T.nextBond++
	at1.Bonds = append(at1.Bonds, b)
	at2.Bonds = append(at2.Bonds, b)
	T.bonds = append(T.bonds, b)
	return b, nil
}

//Masses returns a slice with the masses of all atoms, and an error if
//any of them is missing from the element tables.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i := 0; i < T.Len(); i++ {
		thisatom := T.Atom(i)
		if thisatom.Mass == 0 {
			return nil, CError{msg: fmt.Sprintf("Not all the masses have been obtained: %d %v", i, thisatom), deco: []string{"Masses"}}
		}
		mass[i] = thisatom.Mass
	}
	return mass, nil
}

//CopyAtoms returns a copy of the topology. Bonds are rebuilt so they
//point into the copied atoms.
func (T *Topology) CopyAtoms() *Topology {
	Top := new(Topology)
	Top.Atoms = make([]*Atom, T.Len())
	for key, val := range T.Atoms {
		Top.Atoms[key] = val.Copy()
	}
	Top.charge = T.charge
	Top.multi = T.multi
	for _, b := range T.bonds {
		//can't fail: indexes come from a valid topology
		Top.NewBond(b.At1.Index, b.At2.Index, b.Order)
	}
	return Top
}

//HeavyAtoms returns the number of non-hydrogen atoms.
func (T *Topology) HeavyAtoms() int {
	n := 0
	for _, at := range T.Atoms {
		if at.Heavy() {
			n++
		}
	}
	return n
}

//Metals returns the number of metal atoms.
func (T *Topology) Metals() int {
	n := 0
	for _, at := range T.Atoms {
		if at.Metal() {
			n++
		}
	}
	return n
}

//ValenceOK returns false if any light atom (Z<=10) has a valence
//larger than its maximum in the element tables. Atoms without a
//defined maximum are not checked.
func (T *Topology) ValenceOK() bool {
	for _, at := range T.Atoms {
		if at.Number > 10 {
			continue
		}
		max := symbolMaxValence[at.Symbol]
		if max == 0 {
			continue
		}
		if at.Valence() > max {
			return false
		}
	}
	return true
}

//Formula returns a Hill-order molecular formula (C first, H second,
//everything else alphabetical).
func (T *Topology) Formula() string {
	count := map[string]int{}
	for _, at := range T.Atoms {
		count[at.Symbol]++
	}
	syms := make([]string, 0, len(count))
	for s := range count {
		if s == "C" || s == "H" {
			continue
		}
		syms = append(syms, s)
	}
	sort.Strings(syms)
	if count["H"] > 0 {
		syms = append([]string{"H"}, syms...)
	}
	if count["C"] > 0 {
		syms = append([]string{"C"}, syms...)
	}
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s)
		if count[s] > 1 {
			fmt.Fprintf(&b, "%d", count[s])
		}
	}
	return b.String()
}

/**Type Molecule**/

//Molecule contains the topology of a molecule plus any number of
//conformers, each an Nx3 matrix of cartesian coordinates. The SMILES
//field, when set, is an opaque identifier produced by an external
//toolkit; this package never interprets it.
type Molecule struct {
	*Topology
	Name       string
	SMILES     string
	Conformers []*mat.Dense
}

//NewMolecule makes a molecule from a topology and conformers, which
//can be nil. It returns an error if the topology is nil, or if any
//conformer doesn't match the topology.
func NewMolecule(top *Topology, conformers []*mat.Dense) (*Molecule, error) {
	if top == nil {
		return nil, CError{msg: "Supplied a nil Topology", deco: []string{"NewMolecule"}}
	}
	mol := new(Molecule)
	mol.Topology = top
	for _, c := range conformers {
		if err := mol.AddConformer(c); err != nil {
			return nil, errDecorate(err, "NewMolecule")
		}
	}
	return mol, nil
}

//The molecule methods:

//AddConformer appends a conformer to the molecule. It checks that the
//matrix has 3 columns and one row per atom.
func (M *Molecule) AddConformer(c *mat.Dense) error {
	if c == nil {
		return CError{msg: "Attempted to add nil conformer", deco: []string{"AddConformer"}}
	}
	r, co := c.Dims()
	if co != 3 {
		return CError{msg: fmt.Sprintf("Malformed conformer: %d columns", co), deco: []string{"AddConformer"}}
	}
	if r != M.Len() {
		return CError{msg: fmt.Sprintf("Wrong number of coordinates (%d) for %d atoms", r, M.Len()), deco: []string{"AddConformer"}}
	}
	M.Conformers = append(M.Conformers, c)
	return nil
}

//Conformer returns the i-th conformer. Panics if out of range.
func (M *Molecule) Conformer(i int) *mat.Dense {
	if i >= len(M.Conformers) {
		panic(fmt.Sprintf("Conformer requested (%d) out of range", i))
	}
	return M.Conformers[i]
}

//LenConformers returns the number of conformers in the molecule.
func (M *Molecule) LenConformers() int {
	return len(M.Conformers)
}

//Corrupted checks whether the molecule is corrupted, i.e. some
//conformer doesn't match the number of atoms or lacks 3 columns.
func (M *Molecule) Corrupted() error {
	for i, c := range M.Conformers {
		r, co := c.Dims()
		if r != M.Len() || co != 3 {
			return CError{msg: fmt.Sprintf("Inconsistent conformer %d: Atoms %d, coords: %dx%d", i, M.Len(), r, co), deco: []string{"Corrupted"}}
		}
	}
	return nil
}

//Copy returns a deep copy of the molecule, conformers included.
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(err.Error()) //copying a corrupted molecule means the program is wrong.
	}
	mol := new(Molecule)
	mol.Topology = M.CopyAtoms()
	mol.Name = M.Name
	mol.SMILES = M.SMILES
	mol.Conformers = make([]*mat.Dense, 0, len(M.Conformers))
	for _, c := range M.Conformers {
		mol.Conformers = append(mol.Conformers, mat.DenseCopyOf(c))
	}
	return mol
}

//SetPartialCharges sets the per-atom partial charges. It returns an
//error if the slice doesn't have one value per atom.
func (M *Molecule) SetPartialCharges(q []float64) error {
	if len(q) != M.Len() {
		return CError{msg: fmt.Sprintf("%d charges given for %d atoms", len(q), M.Len()), deco: []string{"SetPartialCharges"}}
	}
	for i, at := range M.Atoms {
		at.PartialCharge = q[i]
	}
	return nil
}

//TotalPartialCharge returns the sum of the atomic partial charges.
func (M *Molecule) TotalPartialCharge() float64 {
	q := 0.0
	for _, at := range M.Atoms {
		q += at.PartialCharge
	}
	return q
}

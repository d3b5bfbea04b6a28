/*
 * molecule_test.go, part of offkit.
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
	"io"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//a methanol-like topology for the tests
func methanol(Te *testing.T) *Molecule {
	syms := []string{"C", "O", "H", "H", "H", "H"}
	atoms := make([]*Atom, len(syms))
	for i, s := range syms {
		atoms[i] = &Atom{Symbol: s, Number: symbolNumber[s], Mass: symbolMass[s]}
	}
	top, err := NewTopology(atoms, 0, 1)
	if err != nil {
		Te.Fatal(err)
	}
	bonds := [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 5}}
	for _, b := range bonds {
		if _, err := top.NewBond(b[0], b[1], 1); err != nil {
			Te.Fatal(err)
		}
	}
	coords := make([]float64, len(syms)*3)
	for i := range syms {
		coords[i*3] = float64(i) //just something consistent
	}
	mol, err := NewMolecule(top, []*mat.Dense{mat.NewDense(len(syms), 3, coords)})
	if err != nil {
		Te.Fatal(err)
	}
	mol.Name = "methanol"
	return mol
}

func TestComposition(Te *testing.T) {
	mol := methanol(Te)
	if mol.HeavyAtoms() != 2 {
		Te.Errorf("HeavyAtoms: got %d, want 2", mol.HeavyAtoms())
	}
	if mol.Metals() != 0 {
		Te.Errorf("Metals: got %d, want 0", mol.Metals())
	}
	if !mol.ValenceOK() {
		Te.Error("ValenceOK: methanol flagged as bad valence")
	}
	if mol.Formula() != "CH4O" {
		Te.Errorf("Formula: got %s, want CH4O", mol.Formula())
	}
	//a carbon with 5 bonds must fail the check
	bad := methanol(Te)
	bad.Atoms = append(bad.Atoms, &Atom{Symbol: "H", Number: 1, Mass: symbolMass["H"], Index: 6})
	if _, err := bad.NewBond(0, 6, 1); err != nil {
		Te.Fatal(err)
	}
	if bad.ValenceOK() {
		Te.Error("ValenceOK: pentavalent carbon not flagged")
	}
}

func TestBonds(Te *testing.T) {
	mol := methanol(Te)
	c := mol.Atom(0)
	o := mol.Atom(1)
	if !BondedTo(c, o) {
		Te.Error("C and O should be bonded")
	}
	if _, err := mol.NewBond(0, 1, 1); err == nil {
		Te.Error("duplicated bond not rejected")
	}
	b := c.Bonds[0]
	if b.Cross(c) != o {
		Te.Error("Cross returned the wrong atom")
	}
	if err := RemoveBond(b, mol.Topology); err != nil {
		Te.Error(err)
	}
	if BondedTo(c, o) {
		Te.Error("C and O still bonded after RemoveBond")
	}
}

func TestConformers(Te *testing.T) {
	mol := methanol(Te)
	if mol.LenConformers() != 1 {
		Te.Fatalf("got %d conformers, want 1", mol.LenConformers())
	}
	if err := mol.AddConformer(mat.NewDense(3, 3, nil)); err == nil {
		Te.Error("conformer with wrong atom count accepted")
	}
	if err := mol.AddConformer(mat.NewDense(6, 3, nil)); err != nil {
		Te.Error(err)
	}
	cp := mol.Copy()
	if cp.LenConformers() != 2 || cp.Len() != 6 {
		Te.Error("Copy lost atoms or conformers")
	}
	cp.Conformer(0).Set(0, 0, 42.0)
	if mol.Conformer(0).At(0, 0) == 42.0 {
		Te.Error("Copy shares conformer storage with the original")
	}
}

func TestXYZRoundTrip(Te *testing.T) {
	mol := methanol(Te)
	name := filepath.Join(Te.TempDir(), "methanol.xyz")
	if err := XYZWrite(name, mol, 0); err != nil {
		Te.Fatal(err)
	}
	mol2, err := XYZRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() {
		Te.Fatalf("round trip lost atoms: %d vs %d", mol2.Len(), mol.Len())
	}
	for i := 0; i < mol.Len(); i++ {
		if mol2.Atom(i).Symbol != mol.Atom(i).Symbol {
			Te.Errorf("atom %d symbol: %s vs %s", i, mol2.Atom(i).Symbol, mol.Atom(i).Symbol)
		}
		if mol2.Conformer(0).At(i, 0) != mol.Conformer(0).At(i, 0) {
			Te.Errorf("atom %d x coordinate differs", i)
		}
	}
}

const testSDF = `ethanolate
  offkit

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.5000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.1000    1.2000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  2  3  1  0
M  CHG  1   3  -1
M  END
$$$$
water
  offkit

  1  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
M  END
$$$$
`

func TestSDFRead(Te *testing.T) {
	r := NewSDFReader(strings.NewReader(testSDF))
	mol, err := r.Next()
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Name != "ethanolate" || mol.Len() != 3 || len(mol.Bonds()) != 2 {
		Te.Errorf("first record misread: %s %d atoms %d bonds", mol.Name, mol.Len(), len(mol.Bonds()))
	}
	if mol.Atom(2).FormalCharge != -1 || mol.Charge() != -1 {
		Te.Errorf("charges misread: atom %d total %d", mol.Atom(2).FormalCharge, mol.Charge())
	}
	mol2, err := r.Next()
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Name != "water" || mol2.Len() != 1 {
		Te.Errorf("second record misread: %s %d atoms", mol2.Name, mol2.Len())
	}
	if _, err = r.Next(); err != io.EOF {
		Te.Errorf("expected EOF, got %v", err)
	}
}

func TestSDFRoundTrip(Te *testing.T) {
	r := NewSDFReader(strings.NewReader(testSDF))
	mol, err := r.Next()
	if err != nil {
		Te.Fatal(err)
	}
	var b strings.Builder
	if err := SDFWrite(&b, mol, 0); err != nil {
		Te.Fatal(err)
	}
	mol2, err := NewSDFReader(strings.NewReader(b.String())).Next()
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() || len(mol2.Bonds()) != len(mol.Bonds()) || mol2.Charge() != mol.Charge() {
		Te.Error("SDF round trip changed the molecule")
	}
}

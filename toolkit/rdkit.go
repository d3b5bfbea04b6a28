/*
 * rdkit.go, part of offkit.
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
//In order to use this backend you need a python interpreter with RDKit
//installed, which must be obtained independently (conda-forge ships it
//as the rdkit package). Please cite the RDKit if you use this backend.

package toolkit

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	off "github.com/openffgo/offkit"
	"gonum.org/v1/gonum/mat"
)

//RDKit drives a python interpreter with RDKit importable. Molecules
//cross the boundary as SDF files written to a scratch directory and
//read back, so only what the SDF subset carries survives the trip.
type RDKit struct {
	command string
}

func NewRDKit() *RDKit {
	run := new(RDKit)
	run.command = os.ExpandEnv("python3")
	return run
}

//SetCommand sets the python interpreter to be used.
func (O *RDKit) SetCommand(name string) {
	O.command = name
}

func (O *RDKit) Command() string { return O.command }

//WithCommand returns a new RDKit backend driven by the named
//interpreter. The receiver is not modified.
func (O *RDKit) WithCommand(name string) Wrapper {
	run := new(RDKit)
	run.command = name
	return run
}

func (O *RDKit) Name() string { return "The RDKit" }

func (O *RDKit) Version() string {
	out, err := exec.Command(O.command, "-c", "from rdkit import rdBase; print(rdBase.rdkitVersion)").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

//Available checks that the interpreter is on PATH and that rdkit is
//importable from it.
func (O *RDKit) Available() bool {
	if _, err := exec.LookPath(O.command); err != nil {
		return false
	}
	return exec.Command(O.command, "-c", "from rdkit import Chem").Run() == nil
}

//run executes a python one-liner with the given extra arguments and
//returns its standard output.
func (O *RDKit) run(script string, args ...string) (string, error) {
	full := append([]string{"-c", script}, args...)
	cmd := exec.Command(O.command, full...)
	var out, errout strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errout
	if err := cmd.Run(); err != nil {
		return "", Error{message: fmt.Sprintf("%s: %s: %s", RunFailed, err.Error(), strings.TrimSpace(errout.String())), toolkit: O.Name(), deco: []string{"run"}}
	}
	return out.String(), nil
}

const rdkitToSmiles = `
import sys
from rdkit import Chem
mol = next(Chem.SDMolSupplier(sys.argv[1], removeHs=False))
print(Chem.MolToSmiles(mol))
`

func (O *RDKit) ToSMILES(mol *off.Molecule) (string, error) {
	dir, err := os.MkdirTemp("", "offkit-rdkit")
	if err != nil {
		return "", Error{message: err.Error(), toolkit: O.Name(), deco: []string{"ToSMILES"}}
	}
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "in.sdf")
	if err := writeSDFFile(name, mol); err != nil {
		return "", Error{message: err.Error(), toolkit: O.Name(), deco: []string{"ToSMILES"}}
	}
	out, err := O.run(rdkitToSmiles, name)
	if err != nil {
		return "", err
	}
	smiles := strings.TrimSpace(out)
	if smiles == "" {
		return "", Error{message: BadOutput + ": empty SMILES", toolkit: O.Name(), deco: []string{"ToSMILES"}}
	}
	mol.SMILES = smiles
	return smiles, nil
}

const rdkitFromSmiles = `
import sys
from rdkit import Chem
from rdkit.Chem import AllChem
mol = Chem.MolFromSmiles(sys.argv[1])
if mol is None:
    sys.exit(3)
mol = Chem.AddHs(mol)
AllChem.Compute2DCoords(mol)
w = Chem.SDWriter(sys.argv[2])
w.write(mol)
w.close()
`

func (O *RDKit) FromSMILES(smiles string) (*off.Molecule, error) {
	dir, err := os.MkdirTemp("", "offkit-rdkit")
	if err != nil {
		return nil, Error{message: err.Error(), toolkit: O.Name(), deco: []string{"FromSMILES"}}
	}
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "out.sdf")
	if _, err := O.run(rdkitFromSmiles, smiles, name); err != nil {
		return nil, errDecorateToolkit(err, "FromSMILES")
	}
	mol, err := readSDFFile(name)
	if err != nil {
		return nil, Error{message: BadOutput + ": " + err.Error(), toolkit: O.Name(), deco: []string{"FromSMILES"}}
	}
	mol.SMILES = smiles
	return mol, nil
}

const rdkitConformers = `
import sys
from rdkit import Chem
from rdkit.Chem import AllChem
mol = next(Chem.SDMolSupplier(sys.argv[1], removeHs=False))
n = int(sys.argv[3])
ids = AllChem.EmbedMultipleConfs(mol, numConfs=n)
w = Chem.SDWriter(sys.argv[2])
for cid in ids:
    w.write(mol, confId=cid)
w.close()
`

//GenerateConformers embeds up to n conformers and appends them to the
//molecule. The atom order is preserved by the SDF trip, so the new
//conformers match the existing topology.
func (O *RDKit) GenerateConformers(mol *off.Molecule, n int) error {
	dir, err := os.MkdirTemp("", "offkit-rdkit")
	if err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "in.sdf")
	out := filepath.Join(dir, "out.sdf")
	if err := writeSDFFile(in, mol); err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	if _, err := O.run(rdkitConformers, in, out, strconv.Itoa(n)); err != nil {
		return errDecorateToolkit(err, "GenerateConformers")
	}
	f, err := os.Open(out)
	if err != nil {
		return Error{message: BadOutput + ": " + err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	defer f.Close()
	r := off.NewSDFReader(f)
	for {
		conf, err := r.Next()
		if err != nil {
			break //io.EOF, or a record we can't use anyway
		}
		if conf.Len() != mol.Len() {
			return Error{message: fmt.Sprintf("%s: conformer with %d atoms for %d-atom molecule", BadOutput, conf.Len(), mol.Len()), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
		}
		if err := mol.AddConformer(conf.Conformer(0)); err != nil {
			return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
		}
	}
	return nil
}

const rdkitCharges = `
import sys
from rdkit import Chem
from rdkit.Chem import AllChem
mol = next(Chem.SDMolSupplier(sys.argv[1], removeHs=False))
AllChem.ComputeGasteigerCharges(mol)
for atom in mol.GetAtoms():
    print(atom.GetDoubleProp("_GasteigerCharge"))
`

//PartialCharges supports the "gasteiger" method.
func (O *RDKit) PartialCharges(mol *off.Molecule, method string) error {
	if method != "gasteiger" {
		return Error{message: NotImplemented, toolkit: O.Name(), deco: []string{"PartialCharges: method " + method}}
	}
	dir, err := os.MkdirTemp("", "offkit-rdkit")
	if err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"PartialCharges"}}
	}
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "in.sdf")
	if err := writeSDFFile(in, mol); err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"PartialCharges"}}
	}
	out, err := O.run(rdkitCharges, in)
	if err != nil {
		return errDecorateToolkit(err, "PartialCharges")
	}
	lines := strings.Fields(out)
	if len(lines) != mol.Len() {
		return Error{message: fmt.Sprintf("%s: %d charges for %d atoms", BadOutput, len(lines), mol.Len()), toolkit: O.Name(), deco: []string{"PartialCharges"}}
	}
	q := make([]float64, len(lines))
	for i, l := range lines {
		q[i], err = strconv.ParseFloat(l, 64)
		if err != nil {
			return Error{message: BadOutput + ": " + err.Error(), toolkit: O.Name(), deco: []string{"PartialCharges"}}
		}
	}
	if err := mol.SetPartialCharges(q); err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"PartialCharges"}}
	}
	return nil
}

const rdkitMatches = `
import sys
from rdkit import Chem
mol = next(Chem.SDMolSupplier(sys.argv[1], removeHs=False))
patt = Chem.MolFromSmarts(sys.argv[2])
if patt is None:
    sys.exit(3)
print(mol.HasSubstructMatch(patt))
`

func (O *RDKit) Matches(mol *off.Molecule, pattern string) (bool, error) {
	dir, err := os.MkdirTemp("", "offkit-rdkit")
	if err != nil {
		return false, Error{message: err.Error(), toolkit: O.Name(), deco: []string{"Matches"}}
	}
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "in.sdf")
	if err := writeSDFFile(in, mol); err != nil {
		return false, Error{message: err.Error(), toolkit: O.Name(), deco: []string{"Matches"}}
	}
	out, err := O.run(rdkitMatches, in, pattern)
	if err != nil {
		return false, errDecorateToolkit(err, "Matches")
	}
	switch strings.TrimSpace(out) {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return false, Error{message: BadOutput + ": " + strings.TrimSpace(out), toolkit: O.Name(), deco: []string{"Matches"}}
}

//small file helpers shared by the exec-backed wrappers

func writeSDFFile(name string, mol *off.Molecule) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	m := mol
	if mol.LenConformers() == 0 {
		//backends want coordinates; an all-zero conformer is enough for
		//topology-only operations.
		m = mol.Copy()
		if err := m.AddConformer(mat.NewDense(m.Len(), 3, nil)); err != nil {
			return err
		}
	}
	return off.SDFWrite(f, m, 0)
}

func readSDFFile(name string) (*off.Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return off.NewSDFReader(f).Next()
}

func errDecorateToolkit(err error, deco string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, deco)
		return e
	}
	return err
}

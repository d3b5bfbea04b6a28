/*
 * openbabel.go, part of offkit.
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
//In order to use this backend you need the obabel program from the
//Open Babel project, which must be obtained independently.

package toolkit

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	off "github.com/openffgo/offkit"
)

//OpenBabel drives the obabel binary through its stdin/stdout
//conversion interface.
type OpenBabel struct {
	command string
}

func NewOpenBabel() *OpenBabel {
	run := new(OpenBabel)
	run.command = os.ExpandEnv("obabel")
	return run
}

//SetCommand sets the obabel binary to be used.
func (O *OpenBabel) SetCommand(name string) {
	O.command = name
}

func (O *OpenBabel) Command() string { return O.command }

//WithCommand returns a new Open Babel backend driven by the named
//binary. The receiver is not modified.
func (O *OpenBabel) WithCommand(name string) Wrapper {
	run := new(OpenBabel)
	run.command = name
	return run
}

func (O *OpenBabel) Name() string { return "Open Babel" }

func (O *OpenBabel) Version() string {
	out, err := exec.Command(O.command, "-V").Output()
	if err != nil {
		return ""
	}
	//"Open Babel 3.1.1 -- ..."
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return ""
	}
	return fields[2]
}

func (O *OpenBabel) Available() bool {
	_, err := exec.LookPath(O.command)
	return err == nil
}

func (O *OpenBabel) run(stdin string, args ...string) (string, error) {
	cmd := exec.Command(O.command, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out, errout strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errout
	if err := cmd.Run(); err != nil {
		return "", Error{message: RunFailed + ": " + err.Error() + ": " + strings.TrimSpace(errout.String()), toolkit: O.Name(), deco: []string{"run"}}
	}
	return out.String(), nil
}

func (O *OpenBabel) molAsSDF(mol *off.Molecule) (string, error) {
	dir, err := os.MkdirTemp("", "offkit-obabel")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "in.sdf")
	if err := writeSDFFile(name, mol); err != nil {
		return "", err
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (O *OpenBabel) ToSMILES(mol *off.Molecule) (string, error) {
	in, err := O.molAsSDF(mol)
	if err != nil {
		return "", Error{message: err.Error(), toolkit: O.Name(), deco: []string{"ToSMILES"}}
	}
	out, err := O.run(in, "-isdf", "-osmi")
	if err != nil {
		return "", errDecorateToolkit(err, "ToSMILES")
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", Error{message: BadOutput + ": empty SMILES", toolkit: O.Name(), deco: []string{"ToSMILES"}}
	}
	mol.SMILES = fields[0]
	return fields[0], nil
}

func (O *OpenBabel) FromSMILES(smiles string) (*off.Molecule, error) {
	out, err := O.run("", "-:"+smiles, "-osdf", "--gen2d", "-h")
	if err != nil {
		return nil, errDecorateToolkit(err, "FromSMILES")
	}
	mol, err := off.NewSDFReader(strings.NewReader(out)).Next()
	if err != nil {
		return nil, Error{message: BadOutput + ": " + err.Error(), toolkit: O.Name(), deco: []string{"FromSMILES"}}
	}
	mol.SMILES = smiles
	return mol, nil
}

//GenerateConformers with obabel produces a single 3D conformer
//regardless of n; the conformer-ensemble work needs the RDKit backend.
func (O *OpenBabel) GenerateConformers(mol *off.Molecule, n int) error {
	in, err := O.molAsSDF(mol)
	if err != nil {
		return Error{message: err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	out, err := O.run(in, "-isdf", "-osdf", "--gen3d")
	if err != nil {
		return errDecorateToolkit(err, "GenerateConformers")
	}
	conf, err := off.NewSDFReader(strings.NewReader(out)).Next()
	if err != nil {
		return Error{message: BadOutput + ": " + err.Error(), toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	if conf.Len() != mol.Len() {
		return Error{message: BadOutput + ": atom count changed", toolkit: O.Name(), deco: []string{"GenerateConformers"}}
	}
	return mol.AddConformer(conf.Conformer(0))
}

func (O *OpenBabel) PartialCharges(mol *off.Molecule, method string) error {
	return notImplemented(O.Name(), "PartialCharges")
}

//Matches uses obabel's -s filter: the molecule is echoed to the output
//only when it matches the pattern.
func (O *OpenBabel) Matches(mol *off.Molecule, pattern string) (bool, error) {
	in, err := O.molAsSDF(mol)
	if err != nil {
		return false, Error{message: err.Error(), toolkit: O.Name(), deco: []string{"Matches"}}
	}
	out, err := O.run(in, "-isdf", "-osmi", "-s", pattern)
	if err != nil {
		return false, errDecorateToolkit(err, "Matches")
	}
	return strings.TrimSpace(out) != "", nil
}

/*
 * files.go, part of offkit.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//XYZRead reads an xyz file and returns a molecule with one conformer.
func XYZRead(xyzname string) (*Molecule, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, CError{msg: UnableToOpen + ": " + xyzname, deco: []string{"XYZRead"}}
	}
	defer xyzfile.Close()
	mol, err := xyzBufRead(bufio.NewReader(xyzfile))
	if err != nil {
		return nil, errDecorate(err, "XYZRead "+xyzname)
	}
	return mol, nil
}

func xyzBufRead(xyz *bufio.Reader) (*Molecule, error) {
	line, err := xyz.ReadString('\n')
	if err != nil {
		return nil, CError{msg: WrongFormat + ": missing atom count"}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, CError{msg: WrongFormat + ": bad atom count"}
	}
	name, _ := xyz.ReadString('\n') //the comment line, we use it as the name
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, CError{msg: fmt.Sprintf("Line %d of xyz truncated", i)}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, CError{msg: fmt.Sprintf("Line %d of xyz ill formed", i)}
		}
		at := new(Atom)
		at.Symbol = fields[0]
		at.Number = symbolNumber[at.Symbol]
		at.Mass = symbolMass[at.Symbol]
		errs := make([]error, 3)
		coords[i*3], errs[0] = strconv.ParseFloat(fields[1], 64)
		coords[i*3+1], errs[1] = strconv.ParseFloat(fields[2], 64)
		coords[i*3+2], errs[2] = strconv.ParseFloat(fields[3], 64)
		for _, e := range errs {
			if e != nil {
				return nil, CError{msg: fmt.Sprintf("Line %d of xyz: %s", i, e.Error())}
			}
		}
		atoms[i] = at
	}
	top, err := NewTopology(atoms, 0, 1)
	if err != nil {
		return nil, err
	}
	mol, err := NewMolecule(top, []*mat.Dense{mat.NewDense(natoms, 3, coords)})
	if err != nil {
		return nil, err
	}
	mol.Name = strings.TrimSpace(name)
	return mol, nil
}

//XYZWrite writes the conformer given of the molecule mol to the file
//xyzname, which is overwritten if it exists.
func XYZWrite(xyzname string, mol *Molecule, conformer int) error {
	out, err := os.Create(xyzname)
	if err != nil {
		return CError{msg: UnableToOpen + ": " + xyzname, deco: []string{"XYZWrite"}}
	}
	defer out.Close()
	if err := xyzBufWrite(out, mol, conformer); err != nil {
		return errDecorate(err, "XYZWrite "+xyzname)
	}
	return nil
}

func xyzBufWrite(out io.Writer, mol *Molecule, conformer int) error {
	if err := mol.Corrupted(); err != nil {
		return err
	}
	c := mol.Conformer(conformer)
	fmt.Fprintf(out, "%-4d\n", mol.Len())
	fmt.Fprintf(out, "%s\n", mol.Name)
	for i, at := range mol.Atoms {
		_, err := fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f\n", at.Symbol, c.At(i, 0), c.At(i, 1), c.At(i, 2))
		if err != nil {
			return CError{msg: err.Error()}
		}
	}
	return nil
}

//SDF, V2000 subset. Only the counts line, the atom and bond blocks and
//the M  CHG property are interpreted. Everything else up to $$$$ is
//skipped. This is deliberately not a full ctab reader: molecule sets
//for curation don't need more.

//SDFReader reads molecules sequentially from a multi-molecule SDF
//stream.
type SDFReader struct {
	r *bufio.Reader
}

//NewSDFReader returns an SDFReader wrapping r.
func NewSDFReader(r io.Reader) *SDFReader {
	return &SDFReader{r: bufio.NewReader(r)}
}

//Next returns the next molecule in the stream, or io.EOF after the
//last one. A molecule that fails to parse returns a non-EOF error;
//the caller may keep reading, as Next skips to the next $$$$ before
//returning.
func (S *SDFReader) Next() (*Molecule, error) {
	name, err := S.r.ReadString('\n')
	if err != nil {
		return nil, io.EOF
	}
	//program and comment lines
	if _, err := S.r.ReadString('\n'); err != nil {
		return nil, io.EOF
	}
	if _, err := S.r.ReadString('\n'); err != nil {
		return nil, io.EOF
	}
	counts, err := S.r.ReadString('\n')
	if err != nil || len(counts) < 6 {
		return nil, S.fail(WrongFormat + ": truncated counts line")
	}
	natoms, err1 := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	nbonds, err2 := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err1 != nil || err2 != nil {
		return nil, S.fail(WrongFormat + ": bad counts line")
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err := S.r.ReadString('\n')
		if err != nil {
			return nil, S.fail(WrongFormat + ": truncated atom block")
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, S.fail(fmt.Sprintf("%s: atom line %d", WrongFormat, i))
		}
		at := new(Atom)
		errs := make([]error, 3)
		coords[i*3], errs[0] = strconv.ParseFloat(fields[0], 64)
		coords[i*3+1], errs[1] = strconv.ParseFloat(fields[1], 64)
		coords[i*3+2], errs[2] = strconv.ParseFloat(fields[2], 64)
		for _, e := range errs {
			if e != nil {
				return nil, S.fail(fmt.Sprintf("%s: atom line %d: %s", WrongFormat, i, e.Error()))
			}
		}
		at.Symbol = fields[3]
		at.Number = symbolNumber[at.Symbol]
		at.Mass = symbolMass[at.Symbol]
		atoms[i] = at
	}
	top, err := NewTopology(atoms, 0, 1)
	if err != nil {
		return nil, S.fail(err.Error())
	}
	for i := 0; i < nbonds; i++ {
		line, err := S.r.ReadString('\n')
		if err != nil || len(line) < 9 {
			return nil, S.fail(WrongFormat + ": truncated bond block")
		}
		a1, err1 := strconv.Atoi(strings.TrimSpace(line[0:3]))
		a2, err2 := strconv.Atoi(strings.TrimSpace(line[3:6]))
		order, err3 := strconv.Atoi(strings.TrimSpace(line[6:9]))
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, S.fail(fmt.Sprintf("%s: bond line %d", WrongFormat, i))
		}
		aromatic := false
		if order == 4 { //ctab aromatic flag
			order = 1
			aromatic = true
		}
		b, err := top.NewBond(a1-1, a2-1, order) //ctab indexes are 1-based
		if err != nil {
			return nil, S.fail(err.Error())
		}
		b.Aromatic = aromatic
	}
	//properties and data items, up to $$$$
	totalq := 0
	for {
		line, err := S.r.ReadString('\n')
		if err != nil {
			break //a last molecule without $$$$ is accepted
		}
		if strings.HasPrefix(line, "$$$$") {
			break
		}
		if strings.HasPrefix(line, "M  CHG") {
			fields := strings.Fields(line)[3:] //pairs of index, charge
			for j := 0; j+1 < len(fields); j += 2 {
				idx, err1 := strconv.Atoi(fields[j])
				q, err2 := strconv.Atoi(fields[j+1])
				if err1 != nil || err2 != nil || idx < 1 || idx > natoms {
					return nil, S.fail(WrongFormat + ": bad M  CHG line")
				}
				atoms[idx-1].FormalCharge = q
				totalq += q
			}
		}
	}
	top.SetCharge(totalq)
	mol, err := NewMolecule(top, []*mat.Dense{mat.NewDense(natoms, 3, coords)})
	if err != nil {
		return nil, CError{msg: err.Error(), deco: []string{"SDFReader.Next"}}
	}
	mol.Name = strings.TrimSpace(name)
	return mol, nil
}

//skip to the end of the current record so the caller can keep reading.
func (S *SDFReader) fail(msg string) error {
	for {
		line, err := S.r.ReadString('\n')
		if err != nil || strings.HasPrefix(line, "$$$$") {
			break
		}
	}
	return CError{msg: msg, deco: []string{"SDFReader.Next"}}
}

//SDFWrite writes the conformer given of mol to w as one V2000 SDF
//record, terminated by $$$$.
func SDFWrite(w io.Writer, mol *Molecule, conformer int) error {
	if err := mol.Corrupted(); err != nil {
		return errDecorate(err, "SDFWrite")
	}
	c := mol.Conformer(conformer)
	fmt.Fprintf(w, "%s\n  offkit\n\n", mol.Name)
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", mol.Len(), len(mol.Bonds()))
	for i, at := range mol.Atoms {
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", c.At(i, 0), c.At(i, 1), c.At(i, 2), at.Symbol)
	}
	for _, b := range mol.Bonds() {
		order := b.Order
		if b.Aromatic {
			order = 4
		}
		fmt.Fprintf(w, "%3d%3d%3d  0\n", b.At1.Index+1, b.At2.Index+1, order)
	}
	charged := make([]*Atom, 0)
	for _, at := range mol.Atoms {
		if at.FormalCharge != 0 {
			charged = append(charged, at)
		}
	}
	if len(charged) > 0 {
		fmt.Fprintf(w, "M  CHG%3d", len(charged))
		for _, at := range charged {
			fmt.Fprintf(w, " %3d %3d", at.Index+1, at.FormalCharge)
		}
		fmt.Fprint(w, "\n")
	}
	_, err := fmt.Fprint(w, "M  END\n$$$$\n")
	if err != nil {
		return CError{msg: err.Error(), deco: []string{"SDFWrite"}}
	}
	return nil
}

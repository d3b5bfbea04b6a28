/*
 * filter.go, part of offkit.
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

package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	off "github.com/openffgo/offkit"
	"github.com/openffgo/offkit/toolkit"
)

//Error is the concrete error type of the filter package.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.message, err.filename)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

const (
	UnableToOpen = "Unable to open file"
	BadElement   = "Malformed element line"
)

//Criteria says what survives the filter. The zero value keeps
//everything; DefaultCriteria gives the settings used to prepare
//parameterization sets.
type Criteria struct {
	MaxHeavyAtoms     int //0 means no upper bound
	MinHeavyAtoms     int
	MaxMetals         int
	AllowRepeats      bool //keep molecules already seen in the stream
	AllowWarnings     bool //keep molecules whose inspection failed
	ExcludedElements  map[int]bool
	ExcludedAtomTypes map[string]bool //atom type names; the element symbol when the format carries no names
	RemovePatterns    []string        //substructure patterns; a match discards the molecule
}

//DefaultCriteria returns the standard settings: between 5 and 100
//heavy atoms, no metals, no repeats and no warnings.
func DefaultCriteria() Criteria {
	return Criteria{
		MaxHeavyAtoms: 100,
		MinHeavyAtoms: 5,
		MaxMetals:     0,
	}
}

//ReadElements reads a set of excluded elements, one atomic number per
//line. Blank lines and '%' comments are skipped.
func ReadElements(r io.Reader) (map[int]bool, error) {
	out := map[int]bool{}
	scn := bufio.NewScanner(r)
	for scn.Scan() {
		line := stripComment(scn.Text())
		if line == "" {
			continue
		}
		z, err := strconv.Atoi(line)
		if err != nil {
			return nil, Error{message: BadElement + ": " + line, deco: []string{"ReadElements"}}
		}
		out[z] = true
	}
	if err := scn.Err(); err != nil {
		return nil, Error{message: err.Error(), deco: []string{"ReadElements"}}
	}
	return out, nil
}

//ReadPatterns reads substructure patterns, one per line. Everything
//after a '%' is a comment; blank lines are skipped. The patterns are
//not parsed here, they go verbatim to the toolkit backends.
func ReadPatterns(r io.Reader) ([]string, error) {
	var out []string
	scn := bufio.NewScanner(r)
	for scn.Scan() {
		line := stripComment(scn.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scn.Err(); err != nil {
		return nil, Error{message: err.Error(), deco: []string{"ReadPatterns"}}
	}
	return out, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "%"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

//Keep applies the size, element, atom-type, valence and pattern
//criteria to one molecule. A light atom bonded beyond its maximum
//valence always discards the molecule. The registry is only consulted
//when there are patterns to match, so pattern-free criteria work with
//an empty registry.
func Keep(mol *off.Molecule, crit Criteria, reg *toolkit.Registry) (bool, error) {
	heavy := mol.HeavyAtoms()
	if crit.MaxHeavyAtoms > 0 && heavy > crit.MaxHeavyAtoms {
		return false, nil
	}
	if heavy < crit.MinHeavyAtoms {
		return false, nil
	}
	if mol.Metals() > crit.MaxMetals {
		return false, nil
	}
	for _, at := range mol.Atoms {
		if crit.ExcludedElements[at.Number] {
			return false, nil
		}
		name := at.Name
		if name == "" {
			name = at.Symbol
		}
		if crit.ExcludedAtomTypes[name] {
			return false, nil
		}
	}
	if !mol.ValenceOK() {
		return false, nil
	}
	for _, patt := range crit.RemovePatterns {
		hit, err := reg.Matches(mol, patt)
		if err != nil {
			return false, errDecorate(err, "Keep")
		}
		if hit {
			return false, nil
		}
	}
	return true, nil
}

//Stats counts what happened to a molecule stream.
type Stats struct {
	Read     int //molecules read from the input
	Warnings int //molecules whose inspection failed
	Repeats  int //molecules already seen earlier in the stream
	Saved    int //molecules written to the output
}

//Report formats the counters the way the filtering runs log them.
func (S *Stats) Report() string {
	return fmt.Sprintf("%d molecules read\n%d molecules raised warnings\n%d molecules were repeats\n%d molecules saved\n",
		S.Read, S.Warnings, S.Repeats, S.Saved)
}

//Molecules filters an SDF stream from in to out. Molecules are read
//one at a time, never the whole set, so arbitrarily large inputs work.
//Repeats are detected by the canonical SMILES from the registry; when
//no backend can produce one the molecular formula is used instead,
//which only ever errs towards finding more repeats. A molecule that
//can't be read or inspected counts as a warning and is discarded
//unless AllowWarnings is set, in which case it is kept without the
//checks that failed.
func Molecules(in io.Reader, out io.Writer, crit Criteria, reg *toolkit.Registry) (*Stats, error) {
	stats := new(Stats)
	seen := map[string]bool{}
	r := off.NewSDFReader(in)
	for {
		mol, err := r.Next()
		if err == io.EOF {
			break
		}
		stats.Read++
		if err != nil {
			stats.Warnings++
			continue //nothing to keep, the record didn't parse
		}
		keep, err := Keep(mol, crit, reg)
		if err != nil {
			stats.Warnings++
			if !crit.AllowWarnings {
				continue
			}
			keep = true
		}
		if !keep {
			continue
		}
		key, err := reg.ToSMILES(mol)
		if err != nil {
			key = mol.Formula()
		}
		if seen[key] {
			stats.Repeats++
			if !crit.AllowRepeats {
				continue
			}
		}
		seen[key] = true
		if err := off.SDFWrite(out, mol, 0); err != nil {
			return stats, errDecorate(err, "Molecules")
		}
		stats.Saved++
	}
	return stats, nil
}

//File filters the molecules in the SDF file inname into outname.
//Files ending in .gz are read and written gzip-compressed, which is
//how the large vendor sets ship.
func File(inname, outname string, crit Criteria, reg *toolkit.Registry) (*Stats, error) {
	fin, err := os.Open(inname)
	if err != nil {
		return nil, Error{message: UnableToOpen, filename: inname, deco: []string{"File"}}
	}
	defer fin.Close()
	var in io.Reader = fin
	if strings.HasSuffix(inname, ".gz") {
		gz, err := gzip.NewReader(fin)
		if err != nil {
			return nil, Error{message: UnableToOpen + ": " + err.Error(), filename: inname, deco: []string{"File"}}
		}
		defer gz.Close()
		in = gz
	}
	fout, err := os.Create(outname)
	if err != nil {
		return nil, Error{message: UnableToOpen, filename: outname, deco: []string{"File"}}
	}
	defer fout.Close()
	var out io.Writer = fout
	if strings.HasSuffix(outname, ".gz") {
		gz := gzip.NewWriter(fout)
		defer gz.Close()
		out = gz
	}
	stats, err := Molecules(in, out, crit, reg)
	if err != nil {
		return stats, errDecorate(err, "File")
	}
	return stats, nil
}

func errDecorate(err error, deco string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, deco)
		return e
	}
	return err
}

/*
 * template.go, part of offkit.
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

package offxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

//The four force-term categories a template declares. The element names
//are fixed; anything else under the root is an error.
const (
	HarmonicBond    = "HarmonicBondForce"
	HarmonicAngle   = "HarmonicAngleForce"
	PeriodicTorsion = "PeriodicTorsionForce"
	Nonbonded       = "NonbondedForce"
)

var blockKinds = []string{HarmonicBond, HarmonicAngle, PeriodicTorsion, Nonbonded}

//Template is a SMIRNOFF force-field template: a version, an aromaticity
//model tag and the four force-term blocks, in file order.
type Template struct {
	Version          string
	AromaticityModel string
	Blocks           []*TermBlock
}

//TermBlock is one force-term category. Units maps unit-attribute names
//(length_unit, k_unit...) to their declared unit strings. The two 1-4
//scaling constants are only meaningful for the Nonbonded block. Params
//holds the populated parameter rows; a skeleton template has none.
type TermBlock struct {
	Kind           string
	Units          map[string]string
	Coulomb14Scale float64
	LJ14Scale      float64
	Params         []Param
}

//Param is one parameter row of a populated template. This package does
//not interpret rows; it only carries them through.
type Param struct {
	Element string
	Attrs   map[string]string
}

//Block returns the block of the given kind, or nil if absent.
func (T *Template) Block(kind string) *TermBlock {
	for _, b := range T.Blocks {
		if b.Kind == kind {
			return b
		}
	}
	return nil
}

//Skeleton returns the canonical empty v0.1 template: the four blocks
//with their unit declarations and the 1-4 scaling constants, and zero
//parameter rows.
func Skeleton() *Template {
	return &Template{
		Version:          "0.1",
		AromaticityModel: "OEAroModel_MDL",
		Blocks: []*TermBlock{
			{Kind: HarmonicBond, Units: map[string]string{"length_unit": "angstroms", "k_unit": "kilocalories_per_mole/angstrom**2"}},
			{Kind: HarmonicAngle, Units: map[string]string{"angle_unit": "degrees", "k_unit": "kilocalories_per_mole/radian**2"}},
			{Kind: PeriodicTorsion, Units: map[string]string{"phase_unit": "degrees", "k_unit": "kilocalories_per_mole"}},
			{Kind: Nonbonded, Units: map[string]string{"sigma_unit": "angstroms", "epsilon_unit": "kilocalories_per_mole"},
				Coulomb14Scale: 0.833333, LJ14Scale: 0.5},
		},
	}
}

//intermediate types for encoding/xml

type xmlRoot struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Blocks  []xmlBlock `xml:",any"`
}

type xmlBlock struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Rows    []xmlRow   `xml:",any"`
}

type xmlRow struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

//Read parses and validates a template from r. The validation enforces:
//exactly one root element (SMIRNOFF, or the legacy SMIRFF name), exactly
//the four known blocks each present once, a non-empty unit set per block,
//and both 1-4 scaling constants present on the Nonbonded block and
//parsing as floats in [0,1].
func Read(r io.Reader) (*Template, error) {
	root := new(xmlRoot)
	if err := xml.NewDecoder(r).Decode(root); err != nil {
		return nil, Error{message: NotWellFormed + ": " + err.Error(), deco: []string{"Read"}}
	}
	if root.XMLName.Local != "SMIRNOFF" && root.XMLName.Local != "SMIRFF" {
		return nil, Error{message: fmt.Sprintf("%s: %s", WrongRoot, root.XMLName.Local), deco: []string{"Read"}}
	}
	t := new(Template)
	for _, a := range root.Attrs {
		switch a.Name.Local {
		case "version":
			t.Version = a.Value
		case "aromaticity_model":
			t.AromaticityModel = a.Value
		}
	}
	seen := map[string]bool{}
	for _, xb := range root.Blocks {
		kind := xb.XMLName.Local
		if !isBlockKind(kind) {
			return nil, Error{message: fmt.Sprintf("%s: %s", UnknownBlock, kind), deco: []string{"Read"}}
		}
		if seen[kind] {
			return nil, Error{message: fmt.Sprintf("%s: %s", DuplicatedBlock, kind), deco: []string{"Read"}}
		}
		seen[kind] = true
		b := &TermBlock{Kind: kind, Units: map[string]string{}}
		hasCoulomb, hasLJ := false, false
		for _, a := range xb.Attrs {
			name := a.Name.Local
			switch {
			case strings.HasSuffix(name, "_unit"):
				b.Units[name] = a.Value
			case name == "coulomb14scale":
				s, err := scale14(kind, name, a.Value)
				if err != nil {
					return nil, err
				}
				b.Coulomb14Scale = s
				hasCoulomb = true
			case name == "lj14scale":
				s, err := scale14(kind, name, a.Value)
				if err != nil {
					return nil, err
				}
				b.LJ14Scale = s
				hasLJ = true
			}
		}
		//absent scales would silently read as zero
		if kind == Nonbonded && !hasCoulomb {
			return nil, Error{message: fmt.Sprintf("%s: %s coulomb14scale", MissingScale, kind), deco: []string{"Read"}}
		}
		if kind == Nonbonded && !hasLJ {
			return nil, Error{message: fmt.Sprintf("%s: %s lj14scale", MissingScale, kind), deco: []string{"Read"}}
		}
		if len(b.Units) == 0 {
			return nil, Error{message: fmt.Sprintf("%s: %s", NoUnits, kind), deco: []string{"Read"}}
		}
		for name, v := range b.Units {
			if strings.TrimSpace(v) == "" {
				return nil, Error{message: fmt.Sprintf("%s: %s %s", EmptyUnit, kind, name), deco: []string{"Read"}}
			}
		}
		for _, row := range xb.Rows {
			p := Param{Element: row.XMLName.Local, Attrs: map[string]string{}}
			for _, a := range row.Attrs {
				p.Attrs[a.Name.Local] = a.Value
			}
			b.Params = append(b.Params, p)
		}
		t.Blocks = append(t.Blocks, b)
	}
	for _, kind := range blockKinds {
		if !seen[kind] {
			return nil, Error{message: fmt.Sprintf("%s: %s", MissingBlock, kind), deco: []string{"Read"}}
		}
	}
	return t, nil
}

//ReadFile reads and validates the template file named.
func ReadFile(name string) (*Template, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{message: UnableToOpen, filename: name, deco: []string{"ReadFile"}}
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			return nil, e
		}
		return nil, err
	}
	return t, nil
}

//Write serializes the template to w as indented XML, with the modern
//root element name. Unit attributes are written in sorted order so the
//output is reproducible.
func (T *Template) Write(w io.Writer) error {
	root := xmlRoot{XMLName: xml.Name{Local: "SMIRNOFF"}}
	root.Attrs = []xml.Attr{
		{Name: xml.Name{Local: "version"}, Value: T.Version},
		{Name: xml.Name{Local: "aromaticity_model"}, Value: T.AromaticityModel},
	}
	for _, b := range T.Blocks {
		xb := xmlBlock{XMLName: xml.Name{Local: b.Kind}}
		if b.Kind == Nonbonded {
			xb.Attrs = append(xb.Attrs,
				xml.Attr{Name: xml.Name{Local: "coulomb14scale"}, Value: strconv.FormatFloat(b.Coulomb14Scale, 'g', -1, 64)},
				xml.Attr{Name: xml.Name{Local: "lj14scale"}, Value: strconv.FormatFloat(b.LJ14Scale, 'g', -1, 64)})
		}
		units := make([]string, 0, len(b.Units))
		for name := range b.Units {
			units = append(units, name)
		}
		sort.Strings(units)
		for _, name := range units {
			xb.Attrs = append(xb.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: b.Units[name]})
		}
		for _, p := range b.Params {
			xr := xmlRow{XMLName: xml.Name{Local: p.Element}}
			attrs := make([]string, 0, len(p.Attrs))
			for name := range p.Attrs {
				attrs = append(attrs, name)
			}
			sort.Strings(attrs)
			for _, name := range attrs {
				xr.Attrs = append(xr.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: p.Attrs[name]})
			}
			xb.Rows = append(xb.Rows, xr)
		}
		root.Blocks = append(root.Blocks, xb)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return Error{message: err.Error(), deco: []string{"Write"}}
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "   ")
	if err := enc.Encode(root); err != nil {
		return Error{message: err.Error(), deco: []string{"Write"}}
	}
	//Encode doesn't emit a trailing newline
	_, err := io.WriteString(w, "\n")
	return err
}

//WriteFile writes the template to the file named, overwriting it.
func (T *Template) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{message: UnableToOpen, filename: name, deco: []string{"WriteFile"}}
	}
	defer f.Close()
	return T.Write(f)
}

func isBlockKind(kind string) bool {
	for _, k := range blockKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func scale14(kind, name, value string) (float64, error) {
	s, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, Error{message: fmt.Sprintf("%s: %s %s=%q", BadScale, kind, name, value), deco: []string{"Read"}}
	}
	if s < 0 || s > 1 {
		return 0, Error{message: fmt.Sprintf("%s: %s %s=%g not in [0,1]", BadScale, kind, name, s), deco: []string{"Read"}}
	}
	return s, nil
}

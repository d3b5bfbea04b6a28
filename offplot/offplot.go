/*
 * offplot.go, part of offkit.
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

/*Package offplot draws the few plots the curation work keeps asking
 * for: what a molecule set looks like before and after filtering.*/

package offplot

import (
	"fmt"
	"io"

	off "github.com/openffgo/offkit"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Error is the concrete error type of the offplot package.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//HeavyAtomCounts reads every molecule in the SDF stream and returns
//the heavy-atom count of each, plus how many records failed to parse.
func HeavyAtomCounts(in io.Reader) ([]float64, int, error) {
	counts := []float64{}
	bad := 0
	r := off.NewSDFReader(in)
	for {
		mol, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}
		counts = append(counts, float64(mol.HeavyAtoms()))
	}
	return counts, bad, nil
}

func basicPlot(title, xlabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Molecules"
	p.Add(plotter.NewGrid())
	return p
}

//HeavyAtomHist plots a histogram of heavy-atom counts and saves it as
//plotname.png. The bins argument follows the plotter convention: 0
//lets the plotter choose.
func HeavyAtomHist(counts []float64, bins int, title, plotname string) error {
	if len(counts) == 0 {
		return Error{message: "Nothing to plot: no molecules", deco: []string{"HeavyAtomHist"}}
	}
	p := basicPlot(title, "Heavy atoms")
	h, err := plotter.NewHist(plotter.Values(counts), bins)
	if err != nil {
		return Error{message: err.Error(), deco: []string{"HeavyAtomHist"}}
	}
	p.Add(h)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return Error{message: err.Error(), deco: []string{"HeavyAtomHist"}}
	}
	return nil
}

//ChargeScatter plots per-atom partial charges of one molecule against
//the atom index, a quick way to eyeball a charge assignment gone
//wrong. Saved as plotname.png.
func ChargeScatter(mol *off.Molecule, title, plotname string) error {
	if mol.Len() == 0 {
		return Error{message: "Nothing to plot: empty molecule", deco: []string{"ChargeScatter"}}
	}
	pts := make(plotter.XYs, mol.Len())
	for i, at := range mol.Atoms {
		pts[i].X = float64(i)
		pts[i].Y = at.PartialCharge
	}
	p := basicPlot(title, "Atom index")
	p.Y.Label.Text = "Partial charge"
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return Error{message: err.Error(), deco: []string{"ChargeScatter"}}
	}
	p.Add(s)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return Error{message: err.Error(), deco: []string{"ChargeScatter"}}
	}
	return nil
}

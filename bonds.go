/*
 * bonds.go, part of offkit.
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

import "fmt"

//Bond joins two atoms of the same molecule. Order 0 means undetermined.
//FracOrder, when set by an external toolkit, carries a fractional
//(Wiberg-like) bond order; it is metadata only.
type Bond struct {
	Index     int
	At1       *Atom
	At2       *Atom
	Order     int
	FracOrder float64
	Aromatic  bool
	Stereo    string //E, Z or empty
}

//Cross returns the atom of the bond that is not the origin given.
//Panics if the origin is not part of the bond, as that has to be a
//programming error.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin.Index == B.At1.Index {
		return B.At2
	}
	if origin.Index == B.At2.Index {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

//return a new *Bond slice with the element id removed
func takefromslice(bonds []*Bond, id int) []*Bond {
	newb := make([]*Bond, 0, len(bonds)-1)
	for _, v := range bonds {
		if v.Index != id {
			newb = append(newb, v)
		}
	}
	return newb
}

//RemoveBond removes the bond b from both of its atoms and from the
//topology. It returns an error if the bond was not there.
func RemoveBond(b *Bond, T *Topology) error {
	lenb1 := len(b.At1.Bonds)
	lenb2 := len(b.At2.Bonds)
	b.At1.Bonds = takefromslice(b.At1.Bonds, b.Index)
	b.At2.Bonds = takefromslice(b.At2.Bonds, b.Index)
	if len(b.At1.Bonds) == lenb1 || len(b.At2.Bonds) == lenb2 {
		err := CError{msg: fmt.Sprintf("Failed to remove bond Index:%d between atoms %d and %d", b.Index, b.At1.Index, b.At2.Index)}
		err.Decorate("RemoveBond")
		return err
	}
	T.bonds = takefromslice(T.bonds, b.Index)
	return nil
}

//BondedTo returns true if at2 shares a bond with at1.
func BondedTo(at1, at2 *Atom) bool {
	for _, b := range at1.Bonds {
		if b.Cross(at1) == at2 {
			return true
		}
	}
	return false
}

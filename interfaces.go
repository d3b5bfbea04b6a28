/*
 * interfaces.go, part of offkit.
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

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

// AtomMultiCharger is Atomer but also gives a
// total charge and multiplicity.
type AtomMultiCharger interface {
	Atomer

	//Charge gets the total charge of the topology
	Charge() int

	//Multi returns the multiplicity of the topology
	Multi() int
}

// Masser can return a slice with the masses of each atom in the reference.
type Masser interface {

	//Returns a slice with the massess of all atoms
	Masses() ([]float64, error)
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate
// method allows to add and retrieve info from the error, without changing it's type or wrapping
// it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //If passed an empty string, returns the current decoration without adding to it. The decoration slice should contain the functions in the calling stack, each optionally followed by extra info, as in "FunctionName: Extra info".
}

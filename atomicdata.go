/*
 * atomicdata.go, part of offkit.
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

//A map for assigning mass to elements.
//Note that just the elements common in parameterization
//sets are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"B":  10.81,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map between element symbols and atomic numbers, for the
//same elements as above.
var symbolNumber = map[string]int{
	"H":  1,
	"Be": 4,
	"B":  5,
	"C":  6,
	"N":  7,
	"O":  8,
	"F":  9,
	"Na": 11,
	"Mg": 12,
	"Si": 14,
	"P":  15,
	"S":  16,
	"Cl": 17,
	"K":  19,
	"Ca": 20,
	"Cr": 24,
	"Mn": 25,
	"Fe": 26,
	"Co": 27,
	"Cu": 29,
	"Zn": 30,
	"Se": 34,
	"Br": 35,
	"I":  53,
}

//the reverse of symbolNumber, built on init.
var numberSymbol = map[int]string{}

func init() {
	for k, v := range symbolNumber {
		numberSymbol[v] = k
	}
}

//A map for checking that atoms don't have too many bonds.
//A value of 0 means undefined, i.e. that the atom shouldn't
//be checked for max valence. Only light atoms (Z<=10) get
//checked when curating molecule sets.
var symbolMaxValence = map[string]int{
	"H":  1,
	"Be": 0,
	"B":  4,
	"C":  4,
	"N":  4,
	"O":  2,
	"F":  1,
}

//Metals that commonly show up in vendor molecule sets. Sets with
//metal centers are generally excluded from force-field fitting.
var symbolMetal = map[string]bool{
	"Na": true,
	"K":  true,
	"Ca": true,
	"Mg": true,
	"Cu": true,
	"Zn": true,
	"Co": true,
	"Fe": true,
	"Mn": true,
	"Cr": true,
	"Be": true,
}

//SymbolFromNumber returns the element symbol for the atomic number z,
//or the empty string if the element is not in the tables.
func SymbolFromNumber(z int) string {
	return numberSymbol[z]
}

//NumberFromSymbol returns the atomic number for the element symbol s,
//or 0 if the element is not in the tables.
func NumberFromSymbol(s string) int {
	return symbolNumber[s]
}

/*
 * doc.go, part of offkit.
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

/*Package off provides atom, bond and molecule structures for force-field
work, facilities for reading and writing some molecule-set file formats,
and simple composition checks (heavy atoms, metals, valence) used when
curating parameterization sets.

	**offkit capabilities**

    Reads/writes XYZ files and a V2000 subset of SDF files.

    Keeps any number of conformers per molecule as Nx3 gonum matrices,
	together with per-atom partial charges.

    Checks molecule composition: heavy-atom and metal counts, excluded
	elements, and valence sanity for light atoms.

    Delegates everything that needs real cheminformatics (SMILES,
	substructure matching, conformer generation, charge models) to external
	backends through the toolkit subpackage; nothing in this package
	implements chemical perception.

The offxml subpackage handles SMIRNOFF force-field templates, filter curates
molecule sets, and the ci/catalog subpackages drive the validation pipeline
around all of it.*/
package off

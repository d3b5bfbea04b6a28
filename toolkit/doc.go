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

/*Package toolkit provides a minimal consistent interface to external
cheminformatics backends, plus a registry that resolves operations
through the registered backends in order of precedence.

The backends themselves must be obtained independently: the RDKit
wrapper drives a python interpreter with RDKit installed, and the Open
Babel wrapper drives the obabel binary. The built-in wrapper is native
Go with a deliberately tiny surface, so that basic file IO keeps working
on a machine with no backend at all.

Whether a backend is importable at run time is a first-class question
here: the CI matrix validator asserts each backend's availability
against the matrix cell's expectation, and can forcibly hide a backend's
command to make sure accidental availability doesn't mask a packaging
defect.*/
package toolkit

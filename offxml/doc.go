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

/*Package offxml reads, validates and writes SMIRNOFF force-field template
files (.offxml). A template declares the force-term categories of a force
field and the physical units of their numeric columns, plus the two global
1-4 scaling constants of the nonbonded block. The bootstrap template holds
no parameter rows: it is a skeleton to be populated by an external fitting
process. This package enforces the template's structural invariants and
stays away from any chemistry: units are opaque strings to be interpreted
by whatever consumes the populated force field.*/
package offxml

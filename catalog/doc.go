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

//Package catalog keeps the examples directory honest. The docs carry a
//curated list of examples; this package checks that the list and the
//directory agree (deprecated material and dotfiles aside), and runs
//the example notebooks the way the CI does: sequentially, in one
//shared environment whose dependencies accumulate from one notebook
//to the next.
package catalog

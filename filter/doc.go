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

//Package filter prunes molecule sets down to what a force-field
//parameterization run can digest: it drops molecules that are too
//large, too small, carry metals or excluded elements, match any of a
//list of substructure patterns, or repeat a molecule already seen in
//the stream. Substructure matching and canonical identifiers are
//delegated to a toolkit.Registry; the size and element criteria are
//native.
package filter

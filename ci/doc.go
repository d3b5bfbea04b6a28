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

//Package ci validates and runs the continuous-integration workflow of
//a toolkit repository. A workflow is a YAML file declaring triggers,
//an environment matrix (operating systems times runtimes times
//per-toolkit availability flags) and a step list. Matrix cells run in
//parallel and never cancel each other; within a cell the steps run in
//order and the first failure ends that cell alone. The availability
//flags are enforced, not assumed: a cell that declares a toolkit
//absent gets that toolkit forcibly removed before the tests run.
package ci

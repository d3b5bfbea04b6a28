/*
 * errors.go, part of offkit.
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

package offxml

import "fmt"

//Error is the concrete error type of the offxml package. It implements
//the off.Error interface.
type Error struct {
	message  string
	filename string //the template file with problems, or empty if none.
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("offxml template error: %s", err.message)
	}
	return fmt.Sprintf("offxml template %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the template file associated to the error
func (err Error) FileName() string { return err.filename }

const (
	NotWellFormed   = "Template is not well-formed XML"
	WrongRoot       = "Wrong root element"
	UnknownBlock    = "Unknown force-term block"
	DuplicatedBlock = "Duplicated force-term block"
	MissingBlock    = "Missing force-term block"
	NoUnits         = "Block declares no units"
	EmptyUnit       = "Empty unit declaration"
	BadScale        = "Bad 1-4 scaling constant"
	MissingScale    = "Missing 1-4 scaling constant"
	UnableToOpen    = "Unable to open file"
)

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

package off

// CError is the concrete error type of the off package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

// Decorate adds the given string to the decoration slice, and returns
// the current decoration. An empty string just returns the decoration.
func (err CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// errDecorate decorates err with the given string if err implements the
// Error interface, and returns it unchanged otherwise.
func errDecorate(err error, deco string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(deco)
	return err2
}

// Messages for errors that are checked against by callers.
const (
	WrongFormat  = "Wrong format in molecule file"
	UnableToOpen = "Unable to open file"
)

/*
 * catalog.go, part of offkit.
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

package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

//Deprecated is the directory where retired examples are parked; it is
//never part of the catalog.
const Deprecated = "deprecated"

//Error is the concrete error type of the catalog package.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.message, err.filename)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

const (
	UnableToOpen = "Unable to open directory"
)

//MismatchError reports a catalog that disagrees with the directory.
//Its message carries both complete lists so the fix is obvious from
//the failure alone.
type MismatchError struct {
	Listed []string //what the catalog says, sorted
	OnDisk []string //what the directory holds, sorted
}

func (err *MismatchError) Error() string {
	return fmt.Sprintf("example catalog does not match the examples directory\nlisted:  [%s]\non disk: [%s]",
		strings.Join(err.Listed, " "), strings.Join(err.OnDisk, " "))
}

//List returns the example directories under dir, sorted. Dotfiles,
//plain files and the deprecated directory don't count as examples.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Error{message: UnableToOpen, filename: dir, deco: []string{"List"}}
	}
	found := []string{}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || name == Deprecated {
			continue
		}
		found = append(found, name)
	}
	sort.Strings(found)
	return found, nil
}

//Check verifies that the catalog in listed names exactly the examples
//under dir. The comparison is order-insensitive; a mismatch returns a
//*MismatchError with both sorted lists.
func Check(listed []string, dir string) error {
	onDisk, err := List(dir)
	if err != nil {
		return errDecorate(err, "Check")
	}
	want := append([]string{}, listed...)
	sort.Strings(want)
	if len(want) == len(onDisk) {
		same := true
		for i := range want {
			if want[i] != onDisk[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return &MismatchError{Listed: want, OnDisk: onDisk}
}

func errDecorate(err error, deco string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, deco)
		return e
	}
	return err
}

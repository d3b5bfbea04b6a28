/*
 * vcsver.go, part of offkit.
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

//Package vcsver derives the version of a source tree from its version
//control tags, so nobody has to bump a constant by hand on every
//release. A checkout sitting exactly on a release tag reports the bare
//version; anything past the tag, or locally modified, gets the
//distance, the commit and a dirty marker appended. Trees exported
//without their history (release tarballs) fall back to a version file
//written at export time.
package vcsver

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

//Error is the concrete error type of the vcsver package.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

const (
	NoGit         = "Not a git checkout, or git not installed"
	BadDescribe   = "Could not parse git describe output"
	NoVersionFile = "Version file missing or unreadable"
)

//Version is a fully-derived tree version.
type Version struct {
	Version  string //the release the tree descends from, e.g. 0.9.0
	Distance int    //commits since the release tag
	Commit   string //abbreviated commit id
	Dirty    bool   //uncommitted changes present
}

//String renders the version. Exactly on a clean tag it is just the
//release; otherwise the distance, commit and dirtiness ride along in
//the local-version segment, so two builds from different commits can
//never claim the same version.
func (V *Version) String() string {
	if V.Distance == 0 && !V.Dirty {
		return V.Version
	}
	s := fmt.Sprintf("%s+%d.g%s", V.Version, V.Distance, V.Commit)
	if V.Dirty {
		s += ".dirty"
	}
	return s
}

//Parse decodes the output of git describe --tags --long --dirty, e.g.
//v0.9.0-7-gabc1234-dirty. A leading v on the tag is dropped.
func Parse(describe string) (*Version, error) {
	s := strings.TrimSpace(describe)
	v := new(Version)
	if strings.HasSuffix(s, "-dirty") {
		v.Dirty = true
		s = strings.TrimSuffix(s, "-dirty")
	}
	//the tag itself may contain dashes, so split from the right
	parts := strings.Split(s, "-")
	if len(parts) < 3 {
		return nil, Error{message: BadDescribe + ": " + describe, deco: []string{"Parse"}}
	}
	gcommit := parts[len(parts)-1]
	if !strings.HasPrefix(gcommit, "g") || len(gcommit) < 2 {
		return nil, Error{message: BadDescribe + ": " + describe, deco: []string{"Parse"}}
	}
	v.Commit = gcommit[1:]
	distance, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || distance < 0 {
		return nil, Error{message: BadDescribe + ": " + describe, deco: []string{"Parse"}}
	}
	v.Distance = distance
	v.Version = strings.TrimPrefix(strings.Join(parts[:len(parts)-2], "-"), "v")
	if v.Version == "" {
		return nil, Error{message: BadDescribe + ": " + describe, deco: []string{"Parse"}}
	}
	return v, nil
}

//FromGit derives the version of the checkout at dir.
func FromGit(dir string) (*Version, error) {
	cmd := exec.Command("git", "-C", dir, "describe", "--tags", "--long", "--dirty")
	out, err := cmd.Output()
	if err != nil {
		return nil, Error{message: NoGit + ": " + err.Error(), deco: []string{"FromGit"}}
	}
	v, err := Parse(string(out))
	if err != nil {
		return nil, errDecorate(err, "FromGit")
	}
	return v, nil
}

//ParseString decodes a rendered version string back into its parts,
//the inverse of String.
func ParseString(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	v := new(Version)
	plus := strings.Index(s, "+")
	if plus < 0 {
		if s == "" {
			return nil, Error{message: BadDescribe + ": empty version", deco: []string{"ParseString"}}
		}
		v.Version = s
		return v, nil
	}
	v.Version = s[:plus]
	local := strings.Split(s[plus+1:], ".")
	if len(local) < 2 {
		return nil, Error{message: BadDescribe + ": " + s, deco: []string{"ParseString"}}
	}
	distance, err := strconv.Atoi(local[0])
	if err != nil || !strings.HasPrefix(local[1], "g") {
		return nil, Error{message: BadDescribe + ": " + s, deco: []string{"ParseString"}}
	}
	v.Distance = distance
	v.Commit = local[1][1:]
	v.Dirty = len(local) > 2 && local[2] == "dirty"
	return v, nil
}

//FromFile reads the version a tree export recorded, as written by
//WriteFile.
func FromFile(name string) (*Version, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, Error{message: NoVersionFile + ": " + name, deco: []string{"FromFile"}}
	}
	v, err := ParseString(string(b))
	if err != nil {
		return nil, errDecorate(err, "FromFile")
	}
	return v, nil
}

//WriteFile records the version for trees that will lose their git
//history, release tarballs mostly.
func (V *Version) WriteFile(name string) error {
	if err := os.WriteFile(name, []byte(V.String()+"\n"), 0644); err != nil {
		return Error{message: err.Error(), deco: []string{"WriteFile"}}
	}
	return nil
}

//Get tries git first and falls back to the version file. This is the
//entry point everything else should use.
func Get(dir, versionfile string) (*Version, error) {
	v, err := FromGit(dir)
	if err == nil {
		return v, nil
	}
	v, err = FromFile(versionfile)
	if err != nil {
		return nil, errDecorate(err, "Get")
	}
	return v, nil
}

func errDecorate(err error, deco string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, deco)
		return e
	}
	return err
}

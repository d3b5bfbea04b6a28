/*
 * vcsver_test.go, part of offkit.
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

package vcsver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Version
		str  string
	}{
		{"v0.9.0-0-gabc1234", Version{Version: "0.9.0", Commit: "abc1234"}, "0.9.0"},
		{"v0.9.0-7-gabc1234", Version{Version: "0.9.0", Distance: 7, Commit: "abc1234"}, "0.9.0+7.gabc1234"},
		{"v0.9.0-7-gabc1234-dirty", Version{Version: "0.9.0", Distance: 7, Commit: "abc1234", Dirty: true}, "0.9.0+7.gabc1234.dirty"},
		{"v0.9.0-0-gabc1234-dirty", Version{Version: "0.9.0", Commit: "abc1234", Dirty: true}, "0.9.0+0.gabc1234.dirty"},
		//tags with dashes in them must survive the right-side split
		{"v1.0.0-rc1-3-gdeadbee", Version{Version: "1.0.0-rc1", Distance: 3, Commit: "deadbee"}, "1.0.0-rc1+3.gdeadbee"},
		{"0.9.0-2-g1234abc", Version{Version: "0.9.0", Distance: 2, Commit: "1234abc"}, "0.9.0+2.g1234abc"},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, *got, c.in)
		assert.Equal(t, c.str, got.String(), c.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "v0.9.0", "v0.9.0-x-gabc1234", "v0.9.0-3-abc1234", "-3-gabc1234"} {
		_, err := Parse(bad)
		assert.Error(t, err, "accepted %q", bad)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, v := range []Version{
		{Version: "0.9.0"},
		{Version: "0.9.0", Distance: 7, Commit: "abc1234"},
		{Version: "0.9.0", Distance: 7, Commit: "abc1234", Dirty: true},
	} {
		got, err := ParseString(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, *got)
	}
}

func TestFileFallback(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "VERSION")
	v := &Version{Version: "0.9.0", Distance: 4, Commit: "cafe123"}
	require.NoError(t, v.WriteFile(name))
	got, err := FromFile(name)
	require.NoError(t, err)
	assert.Equal(t, *v, *got)
	_, err = FromFile(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestGetFallsBack(t *testing.T) {
	//a temp dir is not a git checkout, so Get must use the file
	dir := t.TempDir()
	name := filepath.Join(dir, "VERSION")
	v := &Version{Version: "1.2.3"}
	require.NoError(t, v.WriteFile(name))
	got, err := Get(dir, name)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", got.String())
}

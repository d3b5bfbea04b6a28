/*
 * main.go, part of offkit.
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

//offci is the command-line front end of the offkit CI and curation
//machinery: it runs workflows, checks the example catalog, filters
//molecule sets, emits and validates force-field templates and reports
//the tree version.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openffgo/offkit/catalog"
	"github.com/openffgo/offkit/ci"
	"github.com/openffgo/offkit/filter"
	"github.com/openffgo/offkit/offxml"
	"github.com/openffgo/offkit/toolkit"
	"github.com/openffgo/offkit/vcsver"
	"github.com/spf13/viper"
)

const usage = `usage: offci <command> [arguments]

commands:
  run       <workflow.yml>     run a CI workflow
  catalog   [<list>] <dir>     print the example catalog, or check it against a list
  filter    <in.sdf> <out.sdf> filter a molecule set (.gz handled)
  template  [-check] <file>    write, or validate, a force-field template
  version                      report the tree version
`

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)
	loadConfig(log)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "run":
		err = runWorkflow(log, os.Args[2:])
	case "catalog":
		err = runCatalog(os.Args[2:])
	case "filter":
		err = runFilter(log, os.Args[2:])
	case "template":
		err = runTemplate(os.Args[2:])
	case "version":
		err = runVersion()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

//loadConfig reads offci.yaml from the working directory or the user
//config directory, on top of defaults that work on a bare machine.
func loadConfig(log *slog.Logger) {
	viper.SetConfigName("offci")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/offci")
	viper.SetEnvPrefix("offci")
	viper.AutomaticEnv()
	viper.SetDefault("python", "python3")
	viper.SetDefault("obabel", "obabel")
	viper.SetDefault("manager", "conda")
	viper.SetDefault("environment", "")
	viper.SetDefault("versionfile", "VERSION")
	viper.SetDefault("filter.max_heavy_atoms", 100)
	viper.SetDefault("filter.min_heavy_atoms", 5)
	viper.SetDefault("filter.max_metals", 0)
	viper.SetDefault("filter.elements", "")
	viper.SetDefault("filter.patterns", "")
	viper.SetDefault("filter.atom_types", "")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("config file ignored", "error", err)
		}
	}
}

//registry builds the toolkit registry with the configured commands.
func registry() *toolkit.Registry {
	rd := toolkit.NewRDKit()
	rd.SetCommand(viper.GetString("python"))
	ob := toolkit.NewOpenBabel()
	ob.SetCommand(viper.GetString("obabel"))
	reg, _ := toolkit.NewRegistry([]toolkit.Wrapper{rd, ob, toolkit.NewBuiltin()}, false)
	return reg
}

func runWorkflow(log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	event := fs.String("event", ci.EventPush, "event kind: push, pull_request or schedule")
	repo := fs.String("repo", "", "repository the event fired on, owner/name")
	branch := fs.String("branch", "", "branch of the event")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("run needs exactly one workflow file")
	}
	wf, err := ci.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	r := ci.NewRunner(wf, log)
	return r.Run(context.Background(), ci.Event{Kind: *event, Repo: *repo, Branch: *branch})
}

func runCatalog(args []string) error {
	//with just a directory, print the catalog; with a list file too, check it
	if len(args) == 1 {
		listed, err := catalog.List(args[0])
		if err != nil {
			return err
		}
		for _, name := range listed {
			fmt.Println(name)
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("catalog needs a directory, or a list file and a directory")
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	listed := []string{}
	for _, line := range strings.Split(string(b), "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			listed = append(listed, line)
		}
	}
	return catalog.Check(listed, args[1])
}

func runFilter(log *slog.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("filter needs an input and an output file")
	}
	crit := filter.Criteria{
		MaxHeavyAtoms: viper.GetInt("filter.max_heavy_atoms"),
		MinHeavyAtoms: viper.GetInt("filter.min_heavy_atoms"),
		MaxMetals:     viper.GetInt("filter.max_metals"),
	}
	if s := viper.GetString("filter.atom_types"); s != "" {
		crit.ExcludedAtomTypes = map[string]bool{}
		for _, at := range strings.Split(s, ",") {
			if at = strings.TrimSpace(at); at != "" {
				crit.ExcludedAtomTypes[at] = true
			}
		}
	}
	if name := viper.GetString("filter.elements"); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		crit.ExcludedElements, err = filter.ReadElements(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	if name := viper.GetString("filter.patterns"); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		crit.RemovePatterns, err = filter.ReadPatterns(f)
		f.Close()
		if err != nil {
			return err
		}
	}
	stats, err := filter.File(args[0], args[1], crit, registry())
	if stats != nil {
		fmt.Print(stats.Report())
	}
	return err
}

func runTemplate(args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	check := fs.Bool("check", false, "validate an existing template instead of writing one")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("template needs exactly one file")
	}
	if *check {
		_, err := offxml.ReadFile(fs.Arg(0))
		return err
	}
	return offxml.Skeleton().WriteFile(fs.Arg(0))
}

func runVersion() error {
	v, err := vcsver.Get(".", viper.GetString("versionfile"))
	if err != nil {
		return err
	}
	fmt.Println(v.String())
	return nil
}

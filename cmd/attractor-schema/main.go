// Command attractor-schema prints the JSON Schema bundle for the wire types.
// With -openapi it prints the OpenAPI document; with -ddl it prints the sink
// tables for a SQL dialect
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"attractor/internal/adapters/sink"
	"attractor/internal/core/version"
	perr "attractor/internal/platform/errors"
	"attractor/internal/services/schema"
)

const name = "attractor-schema"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		only     = fs.String("only", "", "print a single schema: "+strings.Join(schema.Names, "|"))
		openapi  = fs.Bool("openapi", false, "print the OpenAPI document instead")
		ddl      = fs.String("ddl", "", "print sink DDL for a dialect: sqlite|postgres|clickhouse")
		prefix   = fs.String("prefix", sink.DefaultPrefix, "table name prefix for -ddl")
		showVers = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *showVers {
		fmt.Fprintln(stdout, version.Info(name))
		return 0
	}

	err := emit(stdout, *only, *openapi, *ddl, *prefix)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
	}
	return perr.ExitCode(err)
}

func emit(w io.Writer, only string, openapi bool, ddl, prefix string) error {
	switch {
	case ddl != "":
		d, ok := sink.DialectByName(ddl)
		if !ok {
			return perr.WithField(perr.InvalidArgf("unknown dialect %q", ddl), "ddl")
		}
		d.Prefix = prefix
		for _, stmt := range d.Schema() {
			if _, err := fmt.Fprintf(w, "%s;\n\n", stmt); err != nil {
				return perr.Wrap(err, perr.ErrorCodeIO, "write ddl")
			}
		}
		return nil

	case openapi:
		doc, err := schema.OpenAPI(name)
		if err != nil {
			return err
		}
		return write(w, doc)

	case only != "":
		s, ok := schema.Generate()[only]
		if !ok {
			return perr.WithField(perr.InvalidArgf("unknown schema %q", only), "only")
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode schema")
		}
		return write(w, out)
	}

	out, err := schema.Generate().JSON()
	if err != nil {
		return err
	}
	return write(w, out)
}

func write(w io.Writer, b []byte) error {
	if _, err := w.Write(append(b, '\n')); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "write")
	}
	return nil
}

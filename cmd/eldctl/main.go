// Command eldctl is a small CLI driver that exercises the eld
// library: create a schema, append rows, read them back, update one
// in place, dump a document for inspection, and run an ad hoc SQL
// query over a document's rows. It plays the role spec.md §1 calls
// "the command-line driver program that exercises the library" — an
// external collaborator, not part of the core — the same way the
// teacher repository ships small flag-based programs under its
// tools/ directory rather than folding them into the library itself.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/nathanpc/libentrylogger"
	"github.com/nathanpc/libentrylogger/internal/config"
	"github.com/nathanpc/libentrylogger/internal/logger"
	"github.com/nathanpc/libentrylogger/internal/sqlindex"
)

func main() {
	logger.Configure()
	cfg := config.Load()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("invalid ELD_LOG_LEVEL: %v", err)
	}

	runID := uuid.New()
	logger.Info("eldctl run %s starting", runID)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = cmdCreate(os.Args[2:])
	case "add-row":
		err = cmdAddRow(os.Args[2:])
	case "get-row":
		err = cmdGetRow(os.Args[2:])
	case "update-row":
		err = cmdUpdateRow(os.Args[2:])
	case "dump":
		err = cmdDump(os.Args[2:])
	case "query":
		err = cmdQuery(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		eld.PrintLastError()
		log.Fatalf("eldctl: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: eldctl <create|add-row|get-row|update-row|dump|query> [flags]")
}

func cmdCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("create: -file is required")
	}

	doc := eld.NewDocument()
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeInt, "Integer", 1)); err != nil {
		return err
	}
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeFloat, "Float", 1)); err != nil {
		return err
	}
	if err := doc.AddField(eld.NewFieldDescriptor(eld.TypeString, "String 10", 10)); err != nil {
		return err
	}
	if err := doc.Save(*path); err != nil {
		return err
	}

	fmt.Printf("created %s: %d fields, header_len=%d row_len=%d\n",
		*path, len(doc.Schema()), doc.HeaderLen(), doc.RowLen())
	return nil
}

func cmdAddRow(args []string) error {
	fs := flag.NewFlagSet("add-row", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	i := fs.Int("int", 0, "integer cell value")
	f := fs.Float64("float", 0, "float cell value")
	s := fs.String("string", "", "string cell value")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("add-row: -file is required")
	}

	doc, err := eld.OpenDocument(*path)
	if err != nil {
		return err
	}

	row := doc.NewRow()
	row.SetInt(0, int32(*i))
	row.SetFloat(1, float32(*f))
	row.SetString(2, *s)

	if err := doc.AddRow(row); err != nil {
		return err
	}
	fmt.Printf("appended row %d to %s\n", row.Index, *path)
	return nil
}

func cmdGetRow(args []string) error {
	fs := flag.NewFlagSet("get-row", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	index := fs.Uint("index", 0, "row index")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("get-row: -file is required")
	}

	doc, err := eld.OpenDocument(*path)
	if err != nil {
		return err
	}

	row, err := doc.GetRow(uint32(*index))
	if err != nil {
		return err
	}
	fmt.Printf("row %d: int=%d float=%g string=%q\n",
		row.Index, row.Int(0), row.Float(1), row.String(2))
	return nil
}

func cmdUpdateRow(args []string) error {
	fs := flag.NewFlagSet("update-row", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	index := fs.Uint("index", 0, "row index")
	i := fs.Int("int", 0, "new integer cell value")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("update-row: -file is required")
	}

	doc, err := eld.OpenDocument(*path)
	if err != nil {
		return err
	}

	row, err := doc.GetRow(uint32(*index))
	if err != nil {
		return err
	}
	row.SetInt(0, int32(*i))

	if err := doc.UpdateRow(row); err != nil {
		return err
	}
	fmt.Printf("updated row %d\n", row.Index)
	return nil
}

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("dump: -file is required")
	}

	doc, err := eld.OpenDocument(*path)
	if err != nil {
		return err
	}
	return doc.Dump(os.Stdout)
}

func cmdQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	path := fs.String("file", "", "document path (required)")
	sql := fs.String("sql", "SELECT * FROM rows", "SQL SELECT to run against the document's rows")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("query: -file is required")
	}

	doc, err := eld.OpenDocument(*path)
	if err != nil {
		return err
	}

	idx, err := sqlindex.Build(doc)
	if err != nil {
		return fmt.Errorf("query: building index: %w", err)
	}
	defer idx.Close()

	results, err := idx.Query(*sql)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	for _, row := range results {
		fmt.Println(row)
	}
	return nil
}

package main

import (
	"flag"
	"log"
	"os"

	"github.com/clarete/cminic"
	"github.com/clarete/cminic/ast"
)

type args struct {
	astPath *string
	inPath  *string
}

func readArgs() *args {
	a := &args{
		astPath: flag.String("ast", "", "Path to the JSON-encoded AST to evaluate"),
		inPath:  flag.String("input", "", "Path to a file GET reads from (defaults to stdin)"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()

	if *a.astPath == "" {
		log.Fatal("AST not informed, pass -ast <path>")
	}

	tu, err := loadAST(*a.astPath)
	if err != nil {
		log.Fatal(err)
	}

	var opts []cminic.Option
	if *a.inPath != "" {
		f, err := os.Open(*a.inPath)
		if err != nil {
			log.Fatalf("Can't open input file: %s", err.Error())
		}
		defer f.Close()
		opts = append(opts, cminic.WithInput(f))
	}

	env := cminic.NewEnvironment(nil, opts...)
	status, err := cminic.NewEvaluator(env).Run(tu)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(status)
}

func loadAST(path string) (*ast.TranslationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tu, err := ast.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ast.Resolve(tu); err != nil {
		return nil, err
	}
	return tu, nil
}

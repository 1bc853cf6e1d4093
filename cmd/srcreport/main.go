/**
 * @file main.go
 * @brief Concurrency-feature census for the paging engine's own source.
 *
 * Adapted from the teacher's generic Go feature analyzer: narrowed to
 * the handful of constructs this engine's concurrency model cares
 * about (goroutines, defers, closures, interfaces) so a reviewer can
 * see at a glance where the concurrency actually lives, rather than a
 * line-by-line read of five packages.
 */
package main

import (
	"bufio"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var gostmt []string
var deferstmt []string
var closures []string
var interfaces []string
var lcount int
var verbose = false

/**
 * @brief Walks one AST node, recording the constructs we track.
 * @param node current AST node
 * @param fset file set used to render source positions
 * @return always true, so ast.Inspect keeps descending
 */
func donode(node ast.Node, fset *token.FileSet) bool {
	switch node.(type) {
	case *ast.GoStmt:
		gostmt = append(gostmt, fset.Position(node.Pos()).String())
	case *ast.DeferStmt:
		deferstmt = append(deferstmt, fset.Position(node.Pos()).String())
	case *ast.FuncLit:
		closures = append(closures, fset.Position(node.Pos()).String())
	case *ast.InterfaceType:
		interfaces = append(interfaces, fset.Position(node.Pos()).String())
	}
	return true
}

func lineCounter(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

func dofile(path string) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	ast.Inspect(f, func(node ast.Node) bool {
		return donode(node, fset)
	})

	file, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	l, err := lineCounter(file)
	if err != nil {
		log.Fatal(err)
	}
	lcount += l
}

func frac(x int) float64 {
	if lcount == 0 {
		return 0
	}
	return (float64(x) / float64(lcount)) * 1000
}

func report(name string, hits []string) {
	fmt.Printf("%-12s %6.2f per kLOC (%d)\n", name, frac(len(hits)), len(hits))
	if verbose {
		for _, h := range hits {
			fmt.Printf("\t%s\n", h)
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("srcreport <dir> [-v]")
		return
	}
	dir := os.Args[1]
	if len(os.Args) > 2 && os.Args[2] == "-v" {
		verbose = true
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			dofile(path)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("error walking %s: %v\n", dir, err)
		return
	}

	fmt.Printf("Line count: %d\n", lcount)
	report("goroutines", gostmt)
	report("defers", deferstmt)
	report("closures", closures)
	report("interfaces", interfaces)
}

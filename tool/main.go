// Command adtgen turns a list of closed node families into the marker
// methods that seal them.
//
//	adtgen nodes.adt kinds_gen.go ast
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type Unions struct {
	Unions []*Union `@@*`
}

type Union struct {
	Name  string   `"type" @Ident "="`
	Cases []string `@Ident ("|" @Ident)*`
	I     struct{} `";"`
}

func markerName(union string) string {
	r := []rune(union)
	r[0] = unicode.ToLower(r[0])
	return string(r) + "Node"
}

func GenerateUnions(pkgname string, u *Unions) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen. DO NOT EDIT.")

	seen := map[string]bool{}
	var order []string

	for _, union := range u.Unions {
		marker := markerName(union.Name)

		f.Type().Id(union.Name).Interface(
			Id("Node"),
			Id(marker).Params(),
		)

		for _, it := range union.Cases {
			f.Func().Params(Op("*").Id(it)).Id(marker).Params().Block()

			if !seen[it] {
				seen[it] = true
				order = append(order, it)
			}
		}
	}

	for _, it := range order {
		f.Func().Params(Op("*").Id(it)).Id("Kind").Params().String().Block(
			Return(Lit(it)),
		)
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtgen IN OUT PACKAGE")
		os.Exit(2)
	}

	parser := participle.MustBuild(&Unions{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	unions := Unions{}
	err = parser.ParseBytes(inData, &unions)
	if err != nil {
		panic(err)
	}

	src := GenerateUnions(pkgname, &unions)
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}

	err = ioutil.WriteFile(out, []byte(src), 0o644)
	if err != nil {
		panic(err)
	}
}

package main

import "github.com/dmitrymomot/dataschema/pkg/cli"

func main() {
	cli.Execute()
}

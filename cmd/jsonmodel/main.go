// Package main provides the jsonmodel CLI.
package main

import "github.com/reoring/jsonmodel/internal/cli"

func main() {
	cli.Execute()
}

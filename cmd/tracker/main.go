// Package main is the entry point for the resource tracker.
package main

import "resource-tracker/cmd/tracker/cmd"

func main() {
	cmd.Execute()
}

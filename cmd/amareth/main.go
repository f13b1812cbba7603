// Package main is the entry point for the Amaréth calendar CLI.
package main

func main() {
	Execute()
}

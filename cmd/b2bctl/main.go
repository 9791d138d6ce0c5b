package main

import "github.com/Umair-Web/BTOBPortal/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/paletteview/paletteview-server/internal/cli"

func main() {
	cli.Execute()
}

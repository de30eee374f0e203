package main

import "github.com/javi11/pngme/cmd/pngme/cmd"

func main() {
	cmd.Execute()
}

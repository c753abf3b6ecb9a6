package main

import "github.com/itsmostafa/weblisp/cmd"

func main() {
	cmd.Execute()
}

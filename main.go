package main

import "github.com/robalobadob/alphabet-bingo/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/cesargomez89/melodeck/internal/cli"

func main() {
	cli.Execute()
}

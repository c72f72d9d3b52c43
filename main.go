package main

import "github.com/fermibench/fermibench/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/Primosic/validador-opin-2025/internal/cli"

func main() {
	cli.Execute()
}

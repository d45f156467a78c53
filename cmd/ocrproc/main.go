package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cli := NewCLI()
	os.Exit(cli.Run(os.Args[1:]))
}

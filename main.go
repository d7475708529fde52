package main

import "github.com/maxjeffwell/spaced-repetition-capstone-server/internal/cli"

func main() {
	cli.Execute()
}

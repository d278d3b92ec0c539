package main

import (
	"github.com/citygame/checkin/internal/cli"
)

func main() {
	cli.Execute()
}

package main

import (
	"maatnet.io/maat/cmd/maat/cmd"
)

func main() {
	cmd.Execute()
}

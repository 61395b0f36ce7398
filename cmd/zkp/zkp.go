package main

import (
	"fmt"
	"os"

	zkp "github.com/paul-weiss/zkp/cmd/zkp-cli"
)

func main() {
	app := zkp.CLI()
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"log"
	"os"

	"github.com/masmgr/msgfix-go/cmd"
)

func main() {
	app := cmd.App()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

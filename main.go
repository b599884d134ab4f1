package main

import (
	"fmt"
	"os"

	"github.com/codeotter0201/fullstack-lms-challenge/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

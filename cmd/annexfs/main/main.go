package main

import (
	"os"

	"github.com/arthur-debert/annexfs/cmd/annexfs"
)

func main() {
	os.Exit(annexfs.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mailcore/cmd/mailcore/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}

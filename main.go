package main

import (
	"fmt"
	"os"

	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/categorize"
	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/export"
	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/process"
	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/root"
	"github.com/TKcodes-bit/Momo-app-code-bit/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Command lz4c compresses and uncompresses files in the LZ4 frame format.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pierrec/cmdflag"
)

func main() {
	flag.CommandLine.Bool(cmdflag.VersionBoolFlag, false, "print the program version")

	cli := cmdflag.New(nil)
	cli.MustAdd(cmdflag.Application{
		Name:  "compress",
		Args:  "[arguments] [<file name> ...]",
		Descr: "Compress the given files, or stdin to stdout if none given.",
		Err:   flag.ExitOnError,
		Init:  compress,
	})
	cli.MustAdd(cmdflag.Application{
		Name:  "uncompress",
		Args:  "[arguments] [<file name> ...]",
		Descr: "Uncompress the given files, or stdin to stdout if none given.",
		Err:   flag.ExitOnError,
		Init:  uncompress,
	})

	if err := cli.Parse(); err != nil {
		fmt.Println(color.RedString("lz4c: %v", err))
		os.Exit(1)
	}
}

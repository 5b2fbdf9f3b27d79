package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pierrec/cmdflag"
	"github.com/stbrumme/lz4"
)

// uncompress uncompresses a set of files, or stdin to stdout if none given.
func uncompress(fs *flag.FlagSet) cmdflag.Handler {
	force := fs.Bool("f", false, "overwrite the output file if it already exists")

	return func(args ...string) (int, error) {
		zr, err := lz4.NewReader(nil)
		if err != nil {
			return 0, err
		}

		if len(args) == 0 {
			if err := zr.Reset(os.Stdin); err != nil {
				return 0, err
			}
			_, err := io.Copy(os.Stdout, zr)
			return 0, err
		}

		for fidx, zfilename := range args {
			if err := uncompressFile(zr, zfilename, *force); err != nil {
				return fidx, err
			}
		}
		return len(args), nil
	}
}

func uncompressFile(zr *lz4.Reader, zfilename string, force bool) error {
	zfile, err := os.Open(zfilename)
	if err != nil {
		return err
	}
	defer zfile.Close()

	info, err := zfile.Stat()
	if err != nil {
		return err
	}

	filename := strings.TrimSuffix(zfilename, lz4.Extension)
	flags := os.O_CREATE | os.O_WRONLY
	if !force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filename, flags, info.Mode())
	if err != nil {
		return err
	}
	defer file.Close()

	if err := zr.Reset(zfile); err != nil {
		return err
	}

	var out io.Writer = file
	var bar *progressbar.ProgressBar
	if size := info.Size(); size > 0 {
		bar = progressbar.NewOptions64(size,
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetDescription(filename),
			progressbar.OptionClearOnFinish(),
		)
		out = io.MultiWriter(file, bar)
	}

	n, err := io.Copy(out, zr)
	if err != nil {
		return err
	}
	fmt.Println(color.GreenString("%s: %s", filename, bytefmt.ByteSize(uint64(n))))
	return nil
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pierrec/cmdflag"
	"github.com/stbrumme/lz4"
)

// compress compresses a set of files, or stdin to stdout if none given.
func compress(fs *flag.FlagSet) cmdflag.Handler {
	levelFlags := make([]*bool, 10)
	for i := range levelFlags {
		levelFlags[i] = fs.Bool(fmt.Sprintf("%d", i), false, fmt.Sprintf("compression level %d", i))
	}
	legacy := fs.Bool("legacy", false, "write the legacy frame format")
	blockChecksum := fs.Bool("bc", false, "enable block checksum (unsupported by this encoder)")
	streamChecksum := fs.Bool("sc", false, "enable content checksum (unsupported by this encoder)")
	dictPath := fs.String("dict", "", "priming dictionary file")
	force := fs.Bool("f", false, "overwrite the output file if it already exists")

	return func(args ...string) (int, error) {
		level := lz4.LevelDefault
		for i, set := range levelFlags {
			if *set {
				level = lz4.Level(i)
			}
		}

		var dictionary []byte
		if *dictPath != "" {
			var err error
			if dictionary, err = os.ReadFile(*dictPath); err != nil {
				return 0, err
			}
		}

		options := []lz4.Option{
			lz4.LevelOption(level),
			lz4.LegacyOption(*legacy),
			lz4.DictionaryOption(dictionary),
			lz4.BlockChecksumOption(*blockChecksum),
			lz4.ChecksumOption(*streamChecksum),
		}

		zw, err := lz4.NewWriter(nil, options...)
		if err != nil {
			return 0, err
		}

		if len(args) == 0 {
			if err := zw.Reset(os.Stdout); err != nil {
				return 0, err
			}
			if _, err := io.Copy(zw, os.Stdin); err != nil {
				return 0, err
			}
			return 0, zw.Close()
		}

		for fidx, filename := range args {
			if err := compressFile(zw, filename, *force); err != nil {
				return fidx, err
			}
		}
		return len(args), nil
	}
}

func compressFile(zw *lz4.Writer, filename string, force bool) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	zfilename := filename + lz4.Extension
	flags := os.O_CREATE | os.O_WRONLY
	if !force {
		flags |= os.O_EXCL
	}
	zfile, err := os.OpenFile(zfilename, flags, info.Mode())
	if err != nil {
		return err
	}

	size := info.Size()
	resetOptions := []lz4.Option{}
	if size > 0 {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetDescription(filename),
			progressbar.OptionClearOnFinish(),
		)
		resetOptions = append(resetOptions, lz4.OnBlockDoneOption(func(n int) {
			_ = bar.Add(n)
		}))
	}

	if err := zw.Reset(zfile, resetOptions...); err != nil {
		return err
	}
	if _, err := io.Copy(zw, file); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	zinfo, err := zfile.Stat()
	if err != nil {
		return err
	}
	zsize := zinfo.Size()
	if err := zfile.Close(); err != nil {
		return err
	}

	if size > 0 {
		fmt.Println(color.GreenString("%s: %s -> %s (%.1f%%)",
			filename,
			bytefmt.ByteSize(uint64(size)),
			bytefmt.ByteSize(uint64(zsize)),
			float64(zsize)*100/float64(size),
		))
	} else {
		fmt.Println(color.GreenString("%s: %s", filename, humanize.Bytes(uint64(zsize))))
	}
	return nil
}

package lz4_test

import (
	"bytes"
	"fmt"

	"github.com/stbrumme/lz4"
)

func Example() {
	var buf bytes.Buffer

	zw, err := lz4.NewWriter(&buf, lz4.LevelOption(lz4.LevelOptimal))
	if err != nil {
		panic(err)
	}
	if _, err := zw.Write([]byte("hello hello hello, lz4!")); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}

	zr, err := lz4.NewReader(&buf)
	if err != nil {
		panic(err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(zr); err != nil {
		panic(err)
	}
	fmt.Println(out.String())
	// Output: hello hello hello, lz4!
}

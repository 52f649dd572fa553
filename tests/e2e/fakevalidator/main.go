// Command fakevalidator stands in for the native OOXML validator in
// end-to-end tests. It prints the target file's contents as its output,
// so fixture documents carry the JSON the real tool would emit. Fixtures
// that are not JSON make it exit 3 with the contents on stderr.
package main

import (
	"bytes"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: fakevalidator <file> [OfficeVersion] [--xml] [--recursive] [--all]")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not find file %s\n", os.Args[1])
		os.Exit(1)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		os.Stderr.Write(data)
		os.Exit(3)
	}
	os.Stdout.Write(data)
}

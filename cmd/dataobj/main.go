// Command dataobj validates and inspects input documents with the dataobj
// rule engine and message catalogs.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		code := exitCode(err)
		if code != ExitValidationError {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}

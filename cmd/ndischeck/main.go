// Command ndischeck runs NDIS item lookups and invoice analyses from the shell.
//
// Usage:
//
//	ndischeck exists 01_011_0107_1_1
//	ndischeck pricing 01_011_0107_1_1 67.56 --location remote
//	ndischeck old-pricing 01_011_0107_1_1
//	ndischeck analyze invoice.csv --agent pricing_verifier --trace trace.csv
//
// Configuration is read from NDISFRAUD_* environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Command defectctl is the operator CLI for the vessel defects register.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newBackend).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

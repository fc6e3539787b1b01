// Command verifier-cli runs the verifier simulator, or drives a single
// VK/proof pair through the full phased pipeline for local testing.
//
// Usage:
//
//	verifier-cli serve [flags]   # run the debug API and optional auto-finalizer
//	verifier-cli verify [flags]  # upload a vk+proof and run every phase once
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		runServe()
		return
	}

	switch os.Args[1] {
	case "serve":
		os.Args = append(os.Args[:1], os.Args[2:]...)
		runServe()
	case "verify":
		runVerify(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; expected \"serve\" or \"verify\"\n", os.Args[1])
		os.Exit(1)
	}
}

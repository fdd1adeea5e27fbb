// Command ltfit fits positron lifetime spectra.
//
// Usage:
//
//	ltfit fit [flags] fit.yaml
//	ltfit preview [flags] fit.yaml
//	ltfit simulate [flags]
//	ltfit codes
//
// Examples:
//
//	ltfit simulate -o spectrum.txt
//	ltfit fit --write-back fit.yaml
//	ltfit fit --spectrum other.txt --max-runs 5 fit.yaml
package main

import "github.com/cwbudde/algo-pals/internal/cli"

func main() {
	cli.Execute()
}

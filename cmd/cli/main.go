// seqscan reads FASTA and FASTQ files, reports sequence statistics and
// converts between the two formats.
package main

import (
	"os"

	"github.com/ccollicutt/seqscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

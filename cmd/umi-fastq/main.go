// umi-fastq exposes the FASTQ transforms of the UMI deduplication pipeline
// as standalone commands. Run "umi-fastq help" for the list.
package main

import "github.com/grailbio/umidedup/cmd/umi-fastq/cmd"

func main() {
	cmd.Run()
}

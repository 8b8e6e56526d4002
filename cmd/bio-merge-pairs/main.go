// bio-merge-pairs merges overlapping paired-end reads into single inserts.
// For more information, see github.com/grailbio/pairmerge/merge/doc.go.
package main

import "github.com/grailbio/pairmerge/cmd/bio-merge-pairs/cmd"

func main() {
	cmd.Run()
}

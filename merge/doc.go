/*
Package merge merges overlapping paired-end reads into single insert
sequences.

For each R1/R2 record pair, R2 is reverse-complemented and slid along R1
looking for the longest exact overlap of at least Opts.MinOverlap bases (see
Overlap). Optional per-side prefix patterns (primers, inline indexes) are
located first and everything up to the end of the match is trimmed away
before the comparison (see PrefixMatcher). Accepted pairs are written as
FASTA records whose description line carries the R1 name and the overlap
length; pairs whose insert contains an 'N' are rejected.

Large inputs are processed in parallel by splitting R1 into record-aligned
byte ranges (see PlanChunks). The same offsets are used for R2, so both files
must have identical per-record byte layout: the same number of records, with
the same line lengths at every record index. This holds
for R1/R2 files demultiplexed from the same run, and is checked before a
parallel run (see CheckPairLayout). Each range is merged into its own
temporary file, and the temporary files are concatenated in range order, so
the output is identical to a single-pass run.

Example:

  opts := merge.DefaultOpts
  opts.R1Path, opts.R2Path = "r1.fastq.gz", "r2.fastq.gz"
  opts.R1Gzip, opts.R2Gzip = true, true
  opts.Parallelism = 8
  stats, err := merge.Run(ctx, opts)
*/
package merge

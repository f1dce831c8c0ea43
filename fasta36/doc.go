/*
Package fasta36 provides routines for reading (but not writing) the
human-readable "-m 0" report produced by the fasta36 suite of similarity
search programs (fasta36, ssearch36, ggsearch36, ...).

The report is processed in two phases. A Segmenter scans the raw text and
yields one opaque Block per query/subject alignment, carrying the header
context it was printed under. ParseBlock then turns a Block into an
Alignment: the labeled statistic fields are extracted, the line-wrapped
query and subject sequence fragments are reassembled into the two full
aligned sequences, and the per-column match pattern is regenerated from a
substitution matrix. Each block is a pure function of its own text, so
blocks may be parsed concurrently; the printed midline in the report is
ignored in favor of the regenerated pattern.

Errors are local to a block: a malformed block yields a *BlockError and the
reader remains usable for the blocks that follow it.
*/
package fasta36

/*
Package match provides residue-pair compatibility scoring and the symbolic
match pattern used to annotate pairwise alignments.

A match pattern carries one byte per alignment column: ':' when the two
residues are identical, '.' when they differ but score non-negatively under
the active substitution matrix, and ' ' for everything else (including every
column touching a gap).

Scoring is a pluggable capability: anything satisfying the Scorer interface
can drive pattern generation. The package ships the standard BLOSUM62 protein
matrix and a small nucleotide matrix.
*/
package match

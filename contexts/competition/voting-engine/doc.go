// Package votingengine implements the Voting & Judging Engine inside the
// competition context.
//
// The module owns review-cohort grouping and reviewer assignment, round-1
// ranked ballot collection and tally, non-voter disqualification, round-2
// plurality voting, song-creator picks, winner resolution, and the read-only
// results projection. Business rules live in application/domain layers;
// infrastructure sits behind ports and adapters.
package votingengine

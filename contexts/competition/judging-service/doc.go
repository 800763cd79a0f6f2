// Package judgingservice implements structured judge evaluation inside the
// competition context.
//
// The module owns rubric definition (weighted criteria with typed scoring
// controls), judgment recording with per-criterion validation, partial score
// saves with explicit completion, and the completed-score aggregation the
// voting engine consumes in rubric tally mode.
package judgingservice

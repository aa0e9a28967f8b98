package activity

import "errors"

var (
	// ErrUnresolvedFish indicates no fish ID in the activity file overlaps
	// the genotype table.
	ErrUnresolvedFish = errors.New("no activity rows match a genotyped fish")

	// ErrTimestampParse indicates a malformed date or time string in the
	// activity file.
	ErrTimestampParse = errors.New("cannot parse timestamp")

	// ErrSchemaMismatch indicates the activity file's columns diverge from
	// the expected set.
	ErrSchemaMismatch = errors.New("activity file schema mismatch")

	// ErrInsufficientData indicates a resampling window larger than an
	// individual's series.
	ErrInsufficientData = errors.New("not enough points for resampling window")

	// ErrNoTransition indicates a series with no light/dark transition, so
	// resampling windows have no boundary to align to.
	ErrNoTransition = errors.New("no light/dark transition in series")

	// ErrInvalidConfig indicates unusable caller-supplied parameters, such
	// as a non-positive window or a lights-off time at or before lights-on.
	ErrInvalidConfig = errors.New("invalid configuration")
)

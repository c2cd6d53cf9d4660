package runner

import "context"

// Runner orchestrates probe, decode, transcript write and source cleanup
// for radio recordings.
type Runner interface {
	// Run processes every matching audio file in the input directory once,
	// in ascending filename order.
	Run(ctx context.Context) error
	// ProcessFile handles a single recording; it is also the watch-mode
	// handler.
	ProcessFile(ctx context.Context, audioPath string) error
}

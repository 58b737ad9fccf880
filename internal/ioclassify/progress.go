package ioclassify

import (
	"github.com/cheggaaa/pb/v3"
)

var startBar = newProgressBar

// newProgressBar creates a progress bar over bytes of a file.
func newProgressBar(
	size int64,
	prefix string,
) *pb.ProgressBar {
	bar := pb.Full.Start64(size)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", prefix+" ")
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

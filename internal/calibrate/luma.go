package calibrate

import "gocv.io/x/gocv"

// MeanLuma returns the mean brightness of a frame in [0,255]. The frame is
// converted to grayscale first; empty frames report 0.
func MeanLuma(frame *gocv.Mat) float64 {
	if frame == nil || frame.Empty() {
		return 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	return gray.Mean().Val1
}

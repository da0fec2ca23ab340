package eft

import (
	"github.com/seojin/tapguide/internal/detector"
)

// XY is a normalized 2D coordinate in [0,1] frame space.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// defaultFaceWidth is the inter-eye distance assumed when neither eye is
// visible, roughly matching a subject at conversational distance.
const defaultFaceWidth = 0.08

// minVisibility is the confidence below which a landmark outside the central
// frame region is treated as missing.
const minVisibility = 0.5

// centralInset bounds the central frame region used by the visibility policy.
const centralInset = 0.1

// faceOval lists the face-mesh contour indices scanned for the topmost point
// when deriving the crown. These follow the MediaPipe FaceMesh oval.
var faceOval = []int{
	10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
	397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
	172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109,
}

// faceMeshChin is the chin tip index in the dense face mesh.
const faceMeshChin = 152

// crownRaise is the fraction of the chin-to-top vertical span the crown sits
// above the topmost contour point. Tuned in the 0.35-0.45 range.
const crownRaise = 0.38

// MapPoint maps a detected pose to the normalized coordinate of a tapping
// point. It returns nil when the landmarks required for the requested
// point/side are missing or unreliable; callers should treat nil as "not
// currently tappable" and skip rendering for the frame.
func MapPoint(pose *detector.Pose, point TappingPoint, side Side) *XY {
	if pose == nil || len(pose.Points) <= detector.RightHip {
		return nil
	}

	nose, noseOK := usable(pose, detector.Nose)
	leftEye, leftEyeOK := usable(pose, detector.LeftEye)
	rightEye, rightEyeOK := usable(pose, detector.RightEye)

	// Inter-eye distance approximates face scale so offsets stay
	// anatomically proportional as the subject moves toward or away
	// from the camera.
	faceWidth := defaultFaceWidth
	if leftEyeOK && rightEyeOK {
		faceWidth = detector.Distance(leftEye, rightEye)
	}

	switch point {
	case Brow:
		base, ok := bilateral(pose, detector.LeftEye, detector.RightEye, side)
		if !ok {
			return nil
		}
		return offset(base, 0, -faceWidth*0.5)

	case SideEye:
		eyeIdx, earIdx := detector.LeftEye, detector.LeftEar
		if side == SideRight {
			eyeIdx, earIdx = detector.RightEye, detector.RightEar
		}
		eye, eyeOK := usable(pose, eyeIdx)
		ear, earOK := usable(pose, earIdx)
		if !eyeOK || !earOK {
			return nil
		}
		p := detector.Lerp(eye, ear, 0.35)
		return &XY{X: p.X, Y: p.Y}

	case UnderEye:
		base, ok := bilateral(pose, detector.LeftEye, detector.RightEye, side)
		if !ok {
			return nil
		}
		return offset(base, 0, faceWidth*0.35)

	case UnderNose:
		if !noseOK {
			return nil
		}
		return offset(nose, 0, faceWidth*0.35)

	case Chin:
		if !noseOK {
			return nil
		}
		return offset(nose, 0, faceWidth*0.9)

	case Clavicle:
		left, leftOK := usable(pose, detector.LeftShoulder)
		right, rightOK := usable(pose, detector.RightShoulder)
		if !leftOK || !rightOK {
			return nil
		}
		p := detector.Lerp(left, right, 0.5)
		return &XY{X: p.X, Y: p.Y}

	case UnderArm:
		shoulderIdx, hipIdx := detector.LeftShoulder, detector.LeftHip
		if side == SideRight {
			shoulderIdx, hipIdx = detector.RightShoulder, detector.RightHip
		}
		shoulder, shoulderOK := usable(pose, shoulderIdx)
		hip, hipOK := usable(pose, hipIdx)
		if !shoulderOK || !hipOK {
			return nil
		}
		p := detector.Lerp(shoulder, hip, 0.25)
		return &XY{X: p.X, Y: p.Y}

	case TopHead:
		// Prefer the dense face mesh when the auxiliary feed delivered
		// one; the crown has no direct pose landmark.
		if crown := crownFromOval(pose.Face); crown != nil {
			return crown
		}
		if !leftEyeOK || !rightEyeOK || !noseOK {
			return nil
		}
		mid := detector.Lerp(leftEye, rightEye, 0.5)
		return offset(mid, 0, -faceWidth*1.2)
	}

	return nil
}

// crownFromOval derives the crown point from a dense face mesh: the topmost
// contour point, raised by a fraction of the chin-to-top vertical span.
// Returns nil when the mesh is absent or too short.
func crownFromOval(face []detector.Point) *XY {
	if len(face) < detector.NumFaceMeshLandmarks {
		return nil
	}

	top := face[faceOval[0]]
	for _, idx := range faceOval[1:] {
		if face[idx].Y < top.Y {
			top = face[idx]
		}
	}

	chin := face[faceMeshChin]
	span := chin.Y - top.Y
	if span <= 0 {
		return nil
	}

	return &XY{X: top.X, Y: top.Y - span*crownRaise}
}

// bilateral resolves a left/right landmark pair against the requested side:
// center averages both when available and falls back to whichever side
// exists, left/right require that side's landmark.
func bilateral(pose *detector.Pose, leftIdx, rightIdx int, side Side) (detector.Point, bool) {
	left, leftOK := usable(pose, leftIdx)
	right, rightOK := usable(pose, rightIdx)

	switch side {
	case SideLeft:
		return left, leftOK
	case SideRight:
		return right, rightOK
	default:
		if leftOK && rightOK {
			return detector.Lerp(left, right, 0.5), true
		}
		if leftOK {
			return left, true
		}
		return right, rightOK
	}
}

// usable fetches a landmark and applies the reliability policy: a landmark
// with low visibility that also sits outside the central frame region is
// treated as missing rather than extrapolated.
func usable(pose *detector.Pose, idx int) (detector.Point, bool) {
	p, ok := pose.Landmark(idx)
	if !ok {
		return detector.Point{}, false
	}
	if p.Visibility > 0 && p.Visibility < minVisibility && !central(p) {
		return detector.Point{}, false
	}
	return p, true
}

func central(p detector.Point) bool {
	return p.X >= centralInset && p.X <= 1-centralInset &&
		p.Y >= centralInset && p.Y <= 1-centralInset
}

func offset(p detector.Point, dx, dy float64) *XY {
	return &XY{X: p.X + dx, Y: p.Y + dy}
}

package plan

import "github.com/seojin/tapguide/internal/eft"

// Sample returns the built-in basic tapping round, used to seed the store on
// first run and by the demo endpoints.
func Sample() *SessionPlan {
	return &SessionPlan{
		Title:    "Basic Tapping Round",
		IntroTip: "Breathe slowly and follow the marker",
		Steps: []Step{
			{Point: eft.TopHead, Side: eft.SideCenter, DurationSec: 7, Tip: "Tap gently on the crown of your head"},
			{Point: eft.Brow, Side: eft.SideCenter, DurationSec: 5, Tip: "Move to the inner eyebrow"},
			{Point: eft.SideEye, Side: eft.SideLeft, DurationSec: 5, Tip: "Tap beside your left eye"},
			{Point: eft.SideEye, Side: eft.SideRight, DurationSec: 5, Tip: "Now beside your right eye"},
			{Point: eft.UnderEye, Side: eft.SideCenter, DurationSec: 5, Tip: "Under the eye, on the bone"},
			{Point: eft.UnderNose, Side: eft.SideCenter, DurationSec: 5, Tip: "Between nose and upper lip"},
			{Point: eft.Chin, Side: eft.SideCenter, DurationSec: 5, Tip: "The crease of your chin"},
			{Point: eft.Clavicle, Side: eft.SideCenter, DurationSec: 7, Tip: "The soft spot below your collarbones"},
			{Point: eft.UnderArm, Side: eft.SideLeft, DurationSec: 5, Tip: "A hand's width below your left armpit"},
			{Point: eft.UnderArm, Side: eft.SideRight, DurationSec: 5, Tip: "And below your right armpit"},
		},
	}
}

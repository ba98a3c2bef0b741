package guide

var aslGuide = Guide{
	Name:    ASL,
	Title:   "ASL Alphabet Guide",
	Summary: "American Sign Language fingerspelling. Every letter is one-handed; J and Z are traced in the air.",
	Letters: []Letter{
		{"A", "Closed fist, thumb straight against the side of the index finger.", 1},
		{"B", "Flat hand, four fingers held tightly together, thumb folded across the palm.", 1},
		{"C", "Fingers and thumb curved into a C shape.", 1},
		{"D", "Index finger points up; middle, ring and pinky touch the thumb tip to form a circle.", 1},
		{"E", "Fingers bent with the tips resting on the upper palm, thumb tucked beneath them.", 1},
		{"F", "Index finger and thumb tips touch in a circle; the other three fingers extended.", 1},
		{"G", "Index finger and thumb point sideways, parallel, other fingers closed.", 1},
		{"H", "Index and middle fingers extended together, pointing sideways.", 1},
		{"I", "Closed fist with the pinky extended straight up.", 1},
		{"J", "Pinky extended, traces a J in the air.", 1},
		{"K", "Index and middle fingers up in a V, thumb touching the middle finger between them.", 1},
		{"L", "Index finger up and thumb out to the side, forming an L.", 1},
		{"M", "Closed fist, index, middle and ring fingers draped over the tucked thumb.", 1},
		{"N", "Closed fist, index and middle fingers draped over the tucked thumb.", 1},
		{"O", "All fingertips meet the thumb tip in an O shape.", 1},
		{"P", "K hand shape pointed downwards.", 1},
		{"Q", "G hand shape pointed downwards.", 1},
		{"R", "Index and middle fingers crossed.", 1},
		{"S", "Closed fist, thumb crossed over the front of the curled fingers.", 1},
		{"T", "Closed fist, thumb tucked between the index and middle fingers.", 1},
		{"U", "Index and middle fingers extended and held tightly together.", 1},
		{"V", "Index and middle fingers extended and spread apart.", 1},
		{"W", "Index, middle and ring fingers extended and spread.", 1},
		{"X", "Index finger crooked into a hook.", 1},
		{"Y", "Thumb and pinky extended, other fingers closed.", 1},
		{"Z", "Index finger traces a Z in the air.", 1},
	},
}

var saslGuide = Guide{
	Name:    SASL,
	Title:   "SASL Alphabet Guide",
	Summary: "South African Sign Language fingerspelling. Vowels are two-handed: the dominant index finger points at a finger of the open non-dominant hand. Consonants are one-handed.",
	Letters: []Letter{
		{"A", "Dominant index finger points to the thumb of the open, flat non-dominant hand.", 2},
		{"B", "Open hand, fingers together, thumb held against the side of the palm.", 1},
		{"C", "Hand shaped like a C.", 1},
		{"D", "Index finger up, the other fingers and thumb forming a defined circle below it.", 1},
		{"E", "Dominant index finger points to the index finger of the non-dominant hand.", 2},
		{"F", "Index finger and thumb touch in a circle, the other three fingers extended and spread.", 1},
		{"G", "Closed fist with the index finger extended, pointing forward horizontally.", 1},
		{"H", "Index and middle fingers extended together, pointing forward horizontally.", 1},
		{"I", "Dominant index finger points to the middle finger of the non-dominant hand.", 2},
		{"J", "Pinky extended, traces a J in the air.", 1},
		{"K", "Index and middle fingers up in a V, thumb touching the palm between them.", 1},
		{"L", "Index finger and thumb extended into an L.", 1},
		{"M", "Index, middle and ring fingers draped over the thumb in a closed fist.", 1},
		{"N", "Index and middle fingers draped over the thumb in a closed fist.", 1},
		{"O", "Dominant index finger points to the ring finger of the non-dominant hand.", 2},
		{"P", "K hand shape pointed downwards.", 1},
		{"Q", "Thumb and index finger point downwards, open as if about to pinch.", 1},
		{"R", "Index and middle fingers crossed.", 1},
		{"S", "Closed fist, thumb crossed over the front of the curled fingers.", 1},
		{"T", "Closed fist, thumb tucked between the index and middle fingers.", 1},
		{"U", "Dominant index finger points to the pinky of the non-dominant hand.", 2},
		{"V", "Index and middle fingers extended upwards and spread apart.", 1},
		{"W", "Index, middle and ring fingers extended upwards and spread apart.", 1},
		{"X", "Index finger crooked into a hook.", 1},
		{"Y", "Thumb and pinky extended.", 1},
		{"Z", "Index finger traces a Z in the air.", 1},
	},
}

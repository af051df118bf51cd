package resp

// Bundle is a request or reply treated as a single engine work item: either
// one frame (Single) or a non-empty, order-preserving sequence of frames
// (Pipeline). A reply Bundle mirrors the shape of the request Bundle it
// answers — same constructor, same invariant.
type Bundle interface {
	bundle()
}

// Single wraps exactly one frame. A pipeline of length one must be built as
// a Single, never a Pipeline — NewBundle enforces this.
type Single struct {
	Frame Frame
}

func (Single) bundle() {}

// Pipeline wraps two or more frames in client-submitted order.
type Pipeline struct {
	Frames []Frame
}

func (Pipeline) bundle() {}

// NewBundle builds the correctly-shaped Bundle for frames: Single when there
// is exactly one, Pipeline otherwise. frames must be non-empty.
func NewBundle(frames []Frame) Bundle {
	if len(frames) == 1 {
		return Single{Frame: frames[0]}
	}
	return Pipeline{Frames: frames}
}

// Len returns the number of frames a Bundle carries.
func Len(b Bundle) int {
	switch v := b.(type) {
	case Single:
		return 1
	case Pipeline:
		return len(v.Frames)
	default:
		return 0
	}
}

// Frames returns the ordered frames a Bundle carries.
func Frames(b Bundle) []Frame {
	switch v := b.(type) {
	case Single:
		return []Frame{v.Frame}
	case Pipeline:
		return v.Frames
	default:
		return nil
	}
}

package compiler

// FanOut combines recorders into one that forwards each record to
// every non-nil receiver in order. Nil receivers are dropped; with
// none left it returns nil so SetRecorder disables recording.
func FanOut(recorders ...Recorder) Recorder {
	kept := make(fanRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			kept = append(kept, r)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return kept
	}
}

type fanRecorder []Recorder

func (f fanRecorder) RecordCompile(rec Record) {
	for _, r := range f {
		r.RecordCompile(rec)
	}
}

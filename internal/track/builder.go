package track

// Builder accumulates detections for a track under construction,
// recomputing the classification and rewriting each detection's track id on
// Build. It resets its accumulation state after every successful build, so
// one Builder can produce many tracks; building without an id set is a
// wiring error.
//
// The cutting engine is the primary consumer: every cut sub-track passes
// through a Builder so its classification reflects only its own detections.
type Builder struct {
	id         ID
	detections []Detection
	calculator ClassificationCalculator
}

// NewBuilder creates a reusable track builder using the given
// classification calculator.
func NewBuilder(calculator ClassificationCalculator) *Builder {
	return &Builder{calculator: calculator}
}

// SetID sets the id for the track being built.
func (b *Builder) SetID(id ID) {
	b.id = id
}

// AddDetection appends a detection to the track being built.
func (b *Builder) AddDetection(d Detection) {
	b.detections = append(b.detections, d)
}

// Build validates and constructs the accumulated track, then resets the
// builder. Each detection is reconstructed with the new track id; all other
// detection fields are preserved. Returns ErrEmptyTrackID when no id was
// set and ErrSingleDetectionTrack when fewer than two detections were
// accumulated.
func (b *Builder) Build() (*Track, error) {
	if err := b.id.Validate(); err != nil {
		return nil, err
	}
	detections := make([]Detection, len(b.detections))
	for i, d := range b.detections {
		d.TrackID = b.id
		detections[i] = d
	}
	built, err := New(b.id, b.calculator.Calculate(detections), detections)
	if err != nil {
		return nil, err
	}
	b.Reset()
	return built, nil
}

// Reset clears the builder's id and accumulated detections.
func (b *Builder) Reset() {
	b.id = ""
	b.detections = nil
}

package osuhits

// FlipHorizontal mirrors every event's x coordinate across the playfield's
// vertical centre line, in place.
func FlipHorizontal(events []HitObject) {
	for i := range events {
		events[i].Position.X = 512 - events[i].Position.X
	}
}

// FlipVertical mirrors every event's y coordinate across the playfield's
// horizontal centre line, in place.
func FlipVertical(events []HitObject) {
	for i := range events {
		events[i].Position.Y = 384 - events[i].Position.Y
	}
}

// ApplyTimeScale multiplies every event's time by scale, in place — the
// effect a rate-changing mod (double time, half time, and so on) has on
// the gameplay sequence.
func ApplyTimeScale(events []HitObject, scale float64) {
	for i := range events {
		events[i].Time *= scale
	}
}

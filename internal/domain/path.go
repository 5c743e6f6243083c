package domain

// Path is the ordered list of recorded locations of a package, oldest first.
// It only ever grows at the end.
type Path []Coordinates

// HasNear reports whether any recorded point is within tol of c on both axes.
func (p Path) HasNear(c Coordinates, tol float64) bool {
	for _, existing := range p {
		if existing.Near(c, tol) {
			return true
		}
	}
	return false
}

// Append returns the path extended by c, or ErrDuplicatePoint when c repeats a
// recorded location. The receiver is never modified.
func (p Path) Append(c Coordinates) (Path, error) {
	if p.HasNear(c, DuplicateTolerance) {
		return p, ErrDuplicatePoint
	}

	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, c), nil
}

// Latest returns the most recently recorded point.
func (p Path) Latest() (Coordinates, bool) {
	if len(p) == 0 {
		return Coordinates{}, false
	}
	return p[len(p)-1], true
}

func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

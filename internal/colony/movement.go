package colony

// Step advances u by one tick of dt seconds. A unit without a target pulls
// the next waypoint; on arrival it snaps onto the target and immediately
// pulls the following waypoint, if any.
func Step(u *Unit, dt, speed, tolerance float64) {
	if u.Target == nil && !u.popWaypoint() {
		return
	}

	target := *u.Target
	offset := target.Sub(u.Position)
	dist := offset.Len()

	if dist < tolerance {
		u.Position = target
		u.Target = nil
		u.popWaypoint()
		return
	}

	dir := offset.Normalize()
	if dir.X == 0 && dir.Y == 0 {
		return
	}

	travel := speed * dt
	if travel > dist {
		travel = dist
	}
	u.Position = u.Position.Add(dir.Scale(travel))
	u.Orientation = dir.Angle()
}

// Advance runs Step for every unit that can move.
func (w *World) Advance(dt float64) {
	for _, u := range w.Colony.Units() {
		if u.Fixed() {
			continue
		}
		Step(u, dt, w.Tuning.UnitSpeed, w.Tuning.ArrivalTolerance)
	}
}

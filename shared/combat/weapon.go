package combat

// maxShotsPerAdvance bounds how many scheduled shots a single tick may release
// after a long stall.
const maxShotsPerAdvance = 64

// WeaponState is a weapon's clip and fire cadence. Times are authority clock
// seconds.
type WeaponState struct {
	ClipCurrent int
	ClipMax     int
	BaseDamage  float64
	RateOfFire  float64 // rounds per minute

	LastFireTime float64
	FiringActive bool
	NextShotAt   float64
	shotsThisRun int
}

// NewWeaponState returns a weapon with a full clip that may fire immediately.
func NewWeaponState(clipMax int, baseDamage, rateOfFire float64) WeaponState {
	if clipMax < 1 {
		clipMax = 1
	}
	w := WeaponState{
		ClipCurrent: clipMax,
		ClipMax:     clipMax,
		BaseDamage:  baseDamage,
		RateOfFire:  rateOfFire,
	}
	w.LastFireTime = -w.MinInterval()
	return w
}

// MinInterval is the minimum number of seconds between two shots.
func (w WeaponState) MinInterval() float64 {
	if w.RateOfFire <= 0 {
		return 0
	}
	return 60 / w.RateOfFire
}

// StartFire arms the repeating shot schedule. The first shot waits until
// minInterval has passed since the previous shot, so start/stop cycles cannot
// exceed the rate of fire.
func (w *WeaponState) StartFire(now float64) {
	firstDelay := w.LastFireTime + w.MinInterval() - now
	if firstDelay < 0 {
		firstDelay = 0
	}
	w.FiringActive = true
	w.NextShotAt = now + firstDelay
	w.shotsThisRun = 0
}

// StopFire cancels the schedule. It returns whether a schedule was active.
func (w *WeaponState) StopFire() bool {
	was := w.FiringActive
	w.FiringActive = false
	w.shotsThisRun = 0
	return was
}

// NextDue pops the next scheduled shot time that is due at now.
func (w *WeaponState) NextDue(now float64) (float64, bool) {
	if !w.FiringActive || now < w.NextShotAt {
		w.shotsThisRun = 0
		return 0, false
	}
	if w.shotsThisRun >= maxShotsPerAdvance {
		// Drop the backlog rather than burst-firing it.
		w.NextShotAt = now + w.MinInterval()
		w.shotsThisRun = 0
		return 0, false
	}
	at := w.NextShotAt
	w.NextShotAt += w.MinInterval()
	w.shotsThisRun++
	return at, true
}

// ConsumeRound spends one round for a shot fired at the given time. It returns
// false without mutation when the clip is empty.
func (w *WeaponState) ConsumeRound(at float64) bool {
	if w.ClipCurrent <= 0 {
		return false
	}
	w.ClipCurrent--
	w.LastFireTime = at
	return true
}

// Missing is the number of rounds needed to fill the clip.
func (w WeaponState) Missing() int {
	if w.ClipCurrent >= w.ClipMax {
		return 0
	}
	return w.ClipMax - w.ClipCurrent
}

func (w WeaponState) ClipFull() bool  { return w.ClipCurrent >= w.ClipMax }
func (w WeaponState) ClipEmpty() bool { return w.ClipCurrent <= 0 }

// AddRounds loads up to n rounds into the clip and returns how many fit.
func (w *WeaponState) AddRounds(n int) int {
	if n <= 0 {
		return 0
	}
	if missing := w.Missing(); n > missing {
		n = missing
	}
	w.ClipCurrent += n
	return n
}

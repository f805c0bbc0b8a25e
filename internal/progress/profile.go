package progress

import "time"

// XPPerLesson is awarded the first time a learner completes a lesson.
const XPPerLesson = 50

// dateLayout is the calendar day format of Profile.LastLoginDate.
const dateLayout = "2006-01-02"

// Profile holds learner-wide stats that are not tied to one lesson.
type Profile struct {
	XP            int    `json:"xp"`
	Streak        int    `json:"streak"`
	LastLoginDate string `json:"lastLoginDate,omitempty"`
}

// IsZero reports whether the profile carries no stats.
func (p Profile) IsZero() bool {
	return p.XP == 0 && p.Streak == 0 && p.LastLoginDate == ""
}

// checkIn advances the daily streak for a visit on day. It reports whether
// the profile changed.
func (p *Profile) checkIn(day time.Time) bool {
	today := day.Format(dateLayout)
	if p.LastLoginDate == today {
		return false
	}
	yesterday := day.AddDate(0, 0, -1).Format(dateLayout)
	if p.LastLoginDate == yesterday {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastLoginDate = today
	return true
}

// NextStreakMilestone returns the next streak length worth celebrating
// above current.
func NextStreakMilestone(current int) int {
	for _, t := range []int{3, 7, 14, 30} {
		if t > current {
			return t
		}
	}
	// Beyond 30, every 30 days.
	return (current/30 + 1) * 30
}

// Profile returns the learner's stats. An unknown learner has a zero
// profile.
func (s *Store) Profile(learner string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[learner]; ok {
		return *p
	}
	return Profile{}
}

// CheckIn records a visit by the learner today, extending the streak on
// consecutive days and restarting it after a gap. Repeat visits on the
// same day change nothing.
func (s *Store) CheckIn(learner string) {
	s.mu.Lock()
	p := s.ensureProfile(learner)
	if !p.checkIn(s.now()) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.notify(Change{Op: OpCheckIn, Ref: Ref{Learner: learner}})
}

func (s *Store) ensureProfile(learner string) *Profile {
	p, ok := s.profiles[learner]
	if !ok {
		p = &Profile{}
		s.profiles[learner] = p
	}
	return p
}

package utils

import "time"

// Korea Standard Time (+09:00)
var kstLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*3600)
}()

// Timestamps are stored as unix seconds.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSecondsKST returns the zero time for t<=0.
func FromUnixSecondsKST(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(kstLoc)
}

// AgeFromBirthYear is the international age counted by calendar year.
func AgeFromBirthYear(now time.Time, birthYear int) int {
	age := now.In(kstLoc).Year() - birthYear
	if age < 0 {
		return 0
	}
	return age
}

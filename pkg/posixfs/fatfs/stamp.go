package fatfs

import "time"

// Packed stamp layout:
//
//	date: bits 15..9 year offset from 1980, bits 8..5 month, bits 4..0 day
//	time: bits 15..11 hour, bits 10..5 minute, bits 4..0 seconds/2
//
// Stamps are calendar values with no timezone; they are interpreted as UTC.

const stampEpochYear = 1980

// TimeFromStamp decodes a packed date/time pair into a UTC timestamp.
func TimeFromStamp(date, tm uint16) time.Time {
	sec := int(tm&0x1f) << 1
	min := int(tm>>5) & 0x3f
	hour := int(tm>>11) & 0x1f
	day := int(date & 0x1f)
	month := int(date>>5) & 0x0f
	year := int(date>>9)&0x7f + stampEpochYear
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
}

// StampFromTime encodes a timestamp into a packed date/time pair. Seconds
// are truncated to the stamp's 2-second resolution; years outside the
// representable 1980..2107 window are clamped to its edges.
func StampFromTime(t time.Time) (date, tm uint16) {
	t = t.UTC()
	year := t.Year()
	if year < stampEpochYear {
		year = stampEpochYear
	}
	if year > stampEpochYear+0x7f {
		year = stampEpochYear + 0x7f
	}
	date = uint16(year-stampEpochYear)<<9 |
		uint16(t.Month())<<5 |
		uint16(t.Day())
	tm = uint16(t.Hour())<<11 |
		uint16(t.Minute())<<5 |
		uint16(t.Second()>>1)
	return date, tm
}

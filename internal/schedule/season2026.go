package schedule

import "time"

// Season2026 is Ramadan 1447 AH for Dhaka: 19 Feb to 20 Mar 2026.
var Season2026 = NewSeason(time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC), [Days]Times{
	{"05:12", "17:58"}, {"05:11", "17:58"}, {"05:11", "17:59"}, {"05:10", "17:59"}, {"05:09", "18:00"},
	{"05:08", "18:00"}, {"05:08", "18:01"}, {"05:07", "18:01"}, {"05:06", "18:02"}, {"05:05", "18:02"},
	{"05:05", "18:03"}, {"05:04", "18:03"}, {"05:03", "18:04"}, {"05:02", "18:04"}, {"05:01", "18:04"},
	{"05:00", "18:05"}, {"04:59", "18:05"}, {"04:58", "18:06"}, {"04:57", "18:06"}, {"04:56", "18:07"},
	{"04:55", "18:07"}, {"04:54", "18:07"}, {"04:53", "18:08"}, {"04:52", "18:08"}, {"04:51", "18:09"},
	{"04:50", "18:09"}, {"04:49", "18:10"}, {"04:48", "18:10"}, {"04:47", "18:10"}, {"04:46", "18:11"},
})

// Default is the table the CLI and server use.
var Default = MustTable(Season2026)

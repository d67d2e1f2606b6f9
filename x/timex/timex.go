package timex

import "time"

var start = time.Now()

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// UptimeS returns whole seconds since process start.
// On the MCU that is seconds since reset.
func UptimeS() uint32 { return uint32(time.Since(start) / time.Second) }

package config

// Embedded board profiles. The documents live in flash as string data and
// are parsed once at boot. Tuning values here are per physical rig: button
// travel, servo torque and receiver placement all differ between builds.
var embeddedProfiles = map[string][]byte{
	// Pico on the prototype rig: VS1838B receiver on GP26, servo signal
	// on GP16, console on UART0.
	"pico-rig-a": []byte(`{
  "press":     {"rest_deg": 0, "press_deg": 90, "engage_ms": 500, "release_ms": 300, "poll_ms": 2},
  "receiver":  {"pin": 26, "active_low": true, "hold_ms": 40, "source": "raw"},
  "servo":     {"pin": 16, "min_us": 500, "max_us": 2500},
  "heartbeat": {"interval_s": 5},
  "console":   {"baud": 115200}
}`),

	// Host simulator: fake rig, stdin console, chattier heartbeat.
	"host-sim": []byte(`{
  "press":     {"rest_deg": 0, "press_deg": 90, "engage_ms": 500, "release_ms": 300, "poll_ms": 2},
  "receiver":  {"hold_ms": 40, "source": "raw"},
  "heartbeat": {"interval_s": 2},
  "console":   {"baud": 0}
}`),
}

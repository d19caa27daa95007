package ui

// ConfigReloadedMsg is sent by the host when the config file changed on
// disk. The page re-derives its styles; clamp limits apply to the next
// drag session.
type ConfigReloadedMsg struct {
	Theme string
}

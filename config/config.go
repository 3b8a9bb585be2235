package config

import "time"

// DefaultMazeName is the registry name the built-in maze is seeded under.
const DefaultMazeName = "default"

// DefaultMaze is served when no maze file is supplied.
var DefaultMaze = []string{
	"##########",
	"#A   #   #",
	"# #  # # #",
	"# #     B#",
	"##########",
}

// Search defaults
const (
	DefaultPolicy    = "astar"
	DefaultHeuristic = "manhattan"
)

// Registry limits
const (
	MaxMazeHeight = 512
	MaxMazeWidth  = 512
	MaxNameLength = 64
)

// Websocket heartbeat settings
const (
	PingInterval    = 10 * time.Second // Frequency of ping frames
	PongWait        = 60 * time.Second // Read deadline extended on every pong
	WriteWait       = 10 * time.Second // Deadline for a single frame write
	SendBufferSize  = 64               // Outgoing messages queued per client
	MaxMessageBytes = 1 << 20
)

// Color is a simple RGBA value used by the renderers.
type Color struct {
	R, G, B, A uint8
}

// Rendering palette
var (
	WallColor     = Color{0, 0, 0, 255}
	StartColor    = Color{0, 255, 0, 255}
	GoalColor     = Color{255, 0, 0, 255}
	PathColor     = Color{0, 0, 255, 255}
	ExploredColor = Color{200, 200, 200, 255}
	OpenColor     = Color{255, 255, 255, 255}
)

// ASCII rendering glyphs
const (
	PathGlyph     = '*'
	ExploredGlyph = '.'
)

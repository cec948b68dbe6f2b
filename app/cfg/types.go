package cfg

type Cfg struct {
	// Storage configuration
	Storage     string
	DBPath      string
	FixturesDir string

	// Application configuration
	Port         string
	BaseUrl      string
	WorkerCount  int
	APIAccessKey string

	// Preview configuration
	PreviewFailureRate float64
	PreviewPostCount   int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

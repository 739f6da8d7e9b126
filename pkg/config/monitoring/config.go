package monitoring

type Config struct {
	Port             int    `default:"6601"`
	URLPrefix        string `json:"url_prefix"`
	MetricEnabled    bool   `json:"metric_enabled"`
	ProfilingEnabled bool   `json:"profiling_enabled"`
}

func (c *Config) IsEnabled() bool { return c.MetricEnabled || c.ProfilingEnabled }

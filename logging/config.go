package logging

import "time"

type Config struct {
	EnabledSinks    []string       `yaml:"enabled_sinks"`
	BufferSize      int            `yaml:"buffer_size"`
	MinimumSeverity Severity       `yaml:"minimum_severity"`
	Fields          map[string]any `yaml:"fields"`
	JSONFilePath    string         `yaml:"json_file_path"`
	DropWarnEvery   time.Duration  `yaml:"drop_warn_every"`
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:    []string{"console"},
		BufferSize:      512,
		MinimumSeverity: SeverityInfo,
		DropWarnEvery:   5 * time.Second,
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

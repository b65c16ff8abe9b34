package config

// Export internal fields for testing

func (a *AppConfig) SetPath(path string) {
	a.path = path
}

func (l *Logger) SetForTest(level, format, output string) {
	l.level = level
	l.format = format
	l.output = output
}
